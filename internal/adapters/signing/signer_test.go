package signing

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bft-labs/docship/internal/domain"
)

func selfSigned(t *testing.T, key crypto.Signer) *x509.Certificate {
	t.Helper()
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "docship test"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, key.Public(), key)
	if err != nil {
		t.Fatalf("create certificate: %v", err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatalf("parse certificate: %v", err)
	}
	return cert
}

func keys(t *testing.T) map[string]crypto.Signer {
	t.Helper()
	_, edKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	return map[string]crypto.Signer{
		AlgEd25519:     edKey,
		AlgECDSASHA256: ecKey,
		AlgRSASHA256:   rsaKey,
	}
}

func TestCertSigner_SignAndVerify(t *testing.T) {
	content := []byte{1, 2, 3}

	for alg, key := range keys(t) {
		t.Run(alg, func(t *testing.T) {
			cred := domain.Credential{Certificate: selfSigned(t, key), Key: key}

			signed, err := NewCertSigner().Sign(context.Background(), content, cred)
			if err != nil {
				t.Fatalf("Sign() error = %v", err)
			}

			got, cert, err := Verify(signed)
			if err != nil {
				t.Fatalf("Verify() error = %v", err)
			}
			if string(got) != string(content) {
				t.Errorf("payload = %v, want %v", got, content)
			}
			if cert.Subject.CommonName != "docship test" {
				t.Errorf("certificate CN = %q", cert.Subject.CommonName)
			}
		})
	}
}

func TestVerify_RejectsTamperedContent(t *testing.T) {
	_, key, _ := ed25519.GenerateKey(rand.Reader)
	cred := domain.Credential{Certificate: selfSigned(t, key), Key: key}
	signed, err := NewCertSigner().Sign(context.Background(), []byte("original"), cred)
	if err != nil {
		t.Fatal(err)
	}

	// Re-encode with a different document block.
	var out []byte
	rest := signed
	for {
		var b *pem.Block
		b, rest = pem.Decode(rest)
		if b == nil {
			break
		}
		if b.Type == BlockDocument {
			b.Bytes = []byte("tampered")
		}
		out = append(out, pem.EncodeToMemory(b)...)
	}

	if _, _, err := Verify(out); !errors.Is(err, errBadSignature) {
		t.Errorf("Verify() error = %v, want errBadSignature", err)
	}
	if _, _, err := Verify([]byte("not pem")); !errors.Is(err, errMalformed) {
		t.Errorf("Verify() error = %v, want errMalformed", err)
	}
}

func TestCertSigner_MissingCredential(t *testing.T) {
	_, err := NewCertSigner().Sign(context.Background(), []byte("x"), domain.Credential{})
	if !errors.Is(err, domain.ErrMissingCredential) {
		t.Errorf("Sign() error = %v, want ErrMissingCredential", err)
	}
}

func TestLoadCredential(t *testing.T) {
	dir := t.TempDir()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	cert := selfSigned(t, key)
	keyDER, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		t.Fatal(err)
	}

	certFile := filepath.Join(dir, "cert.pem")
	keyFile := filepath.Join(dir, "key.pem")
	if err := os.WriteFile(certFile, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: cert.Raw}), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(keyFile, pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: keyDER}), 0o600); err != nil {
		t.Fatal(err)
	}

	cred, err := LoadCredential(certFile, keyFile)
	if err != nil {
		t.Fatalf("LoadCredential() error = %v", err)
	}
	if !cred.Certificate.Equal(cert) {
		t.Error("loaded certificate differs")
	}
	if cred.Key == nil {
		t.Error("loaded key is nil")
	}

	if _, err := LoadCredential(filepath.Join(dir, "missing.pem"), keyFile); err == nil {
		t.Error("LoadCredential() error = nil for missing certificate")
	}
}
