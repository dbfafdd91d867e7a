package tls

import (
	stdtls "crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSelfSignedCert(t *testing.T) {
	dir := t.TempDir()
	certPath := filepath.Join(dir, "cert.pem")
	keyPath := filepath.Join(dir, "key.pem")

	if err := GenerateSelfSignedCert(certPath, keyPath, []string{"localhost", "127.0.0.1"}); err != nil {
		t.Fatal(err)
	}

	// The pair must load as a usable server certificate.
	pair, err := stdtls.LoadX509KeyPair(certPath, keyPath)
	assert.NoError(t, err)
	assert.NotEmpty(t, pair.Certificate)

	certPEM, err := os.ReadFile(certPath)
	if err != nil {
		t.Fatal(err)
	}
	block, _ := pem.Decode(certPEM)
	if block == nil {
		t.Fatal("no PEM block in certificate file")
	}
	assert.Equal(t, "CERTIFICATE", block.Type)

	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		t.Fatal(err)
	}
	assert.Contains(t, cert.DNSNames, "localhost")
	if assert.Len(t, cert.IPAddresses, 1) {
		assert.Equal(t, "127.0.0.1", cert.IPAddresses[0].String())
	}
	assert.Contains(t, cert.ExtKeyUsage, x509.ExtKeyUsageServerAuth)
}

func TestGenerateSelfSignedCertOverwrites(t *testing.T) {
	dir := t.TempDir()
	certPath := filepath.Join(dir, "cert.pem")
	keyPath := filepath.Join(dir, "key.pem")

	if err := os.WriteFile(certPath, []byte("stale"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := GenerateSelfSignedCert(certPath, keyPath, []string{"localhost"}); err != nil {
		t.Fatal(err)
	}

	_, err := stdtls.LoadX509KeyPair(certPath, keyPath)
	assert.NoError(t, err)
}
