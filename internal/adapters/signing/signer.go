// Package signing implements ports.Signer with X.509 credentials.
//
// Signed content is a sequence of PEM blocks:
//
//	-----BEGIN DOCUMENT-----      the signed payload
//	-----BEGIN SIGNATURE-----     Algorithm header plus the raw signature
//	-----BEGIN CERTIFICATE-----   the signer's certificate
package signing

import (
	"bytes"
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"io"

	"github.com/bft-labs/docship/internal/domain"
)

// PEM block types and signature algorithms.
const (
	BlockDocument    = "DOCUMENT"
	BlockSignature   = "SIGNATURE"
	BlockCertificate = "CERTIFICATE"

	AlgEd25519     = "Ed25519"
	AlgRSASHA256   = "RSA-SHA256"
	AlgECDSASHA256 = "ECDSA-SHA256"
)

var (
	errUnsupportedKey = errors.New("unsupported key type")
	errMalformed      = errors.New("malformed signed content")
	errBadSignature   = errors.New("signature verification failed")
)

// CertSigner implements ports.Signer.
type CertSigner struct {
	rand io.Reader
}

// NewCertSigner creates a new CertSigner using crypto/rand.
func NewCertSigner() *CertSigner {
	return &CertSigner{rand: rand.Reader}
}

// Sign signs content with cred.Key and bundles content, signature and certificate.
func (s *CertSigner) Sign(ctx context.Context, content []byte, cred domain.Credential) (domain.SignedContent, error) {
	if cred.Certificate == nil || cred.Key == nil {
		return nil, domain.ErrMissingCredential
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	alg, msg, opts, err := prepare(cred.Key.Public(), content)
	if err != nil {
		return nil, err
	}

	sig, err := cred.Key.Sign(s.rand, msg, opts)
	if err != nil {
		return nil, fmt.Errorf("sign: %w", err)
	}

	var buf bytes.Buffer
	blocks := []*pem.Block{
		{Type: BlockDocument, Bytes: content},
		{Type: BlockSignature, Headers: map[string]string{"Algorithm": alg}, Bytes: sig},
		{Type: BlockCertificate, Bytes: cred.Certificate.Raw},
	}
	for _, b := range blocks {
		if err := pem.Encode(&buf, b); err != nil {
			return nil, fmt.Errorf("encode %s: %w", b.Type, err)
		}
	}
	return buf.Bytes(), nil
}

// prepare returns the algorithm name, the message to pass to crypto.Signer
// and the signer options for pub.
func prepare(pub crypto.PublicKey, content []byte) (string, []byte, crypto.SignerOpts, error) {
	switch pub.(type) {
	case ed25519.PublicKey:
		return AlgEd25519, content, crypto.Hash(0), nil
	case *rsa.PublicKey:
		sum := sha256.Sum256(content)
		return AlgRSASHA256, sum[:], crypto.SHA256, nil
	case *ecdsa.PublicKey:
		sum := sha256.Sum256(content)
		return AlgECDSASHA256, sum[:], crypto.SHA256, nil
	default:
		return "", nil, nil, fmt.Errorf("%w: %T", errUnsupportedKey, pub)
	}
}

// Verify checks signed content produced by CertSigner and returns the
// payload and the signer's certificate.
func Verify(signed []byte) ([]byte, *x509.Certificate, error) {
	var doc, sig, certBlock *pem.Block
	rest := signed
	for {
		var b *pem.Block
		b, rest = pem.Decode(rest)
		if b == nil {
			break
		}
		switch b.Type {
		case BlockDocument:
			doc = b
		case BlockSignature:
			sig = b
		case BlockCertificate:
			certBlock = b
		}
	}
	if doc == nil || sig == nil || certBlock == nil {
		return nil, nil, errMalformed
	}

	cert, err := x509.ParseCertificate(certBlock.Bytes)
	if err != nil {
		return nil, nil, fmt.Errorf("parse certificate: %w", err)
	}

	alg, msg, _, err := prepare(cert.PublicKey, doc.Bytes)
	if err != nil {
		return nil, nil, err
	}
	if sig.Headers["Algorithm"] != alg {
		return nil, nil, fmt.Errorf("%w: algorithm %q", errBadSignature, sig.Headers["Algorithm"])
	}

	ok := false
	switch pub := cert.PublicKey.(type) {
	case ed25519.PublicKey:
		ok = ed25519.Verify(pub, msg, sig.Bytes)
	case *rsa.PublicKey:
		ok = rsa.VerifyPKCS1v15(pub, crypto.SHA256, msg, sig.Bytes) == nil
	case *ecdsa.PublicKey:
		ok = ecdsa.VerifyASN1(pub, msg, sig.Bytes)
	}
	if !ok {
		return nil, nil, errBadSignature
	}
	return doc.Bytes, cert, nil
}

// LoadCredential reads a PEM certificate and private key pair.
func LoadCredential(certFile, keyFile string) (domain.Credential, error) {
	pair, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return domain.Credential{}, fmt.Errorf("load key pair: %w", err)
	}

	leaf := pair.Leaf
	if leaf == nil {
		leaf, err = x509.ParseCertificate(pair.Certificate[0])
		if err != nil {
			return domain.Credential{}, fmt.Errorf("parse certificate: %w", err)
		}
	}

	key, ok := pair.PrivateKey.(crypto.Signer)
	if !ok {
		return domain.Credential{}, fmt.Errorf("%w: %T", errUnsupportedKey, pair.PrivateKey)
	}

	return domain.Credential{Certificate: leaf, Key: key}, nil
}
