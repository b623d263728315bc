package tlscert

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"fmt"
	"math/big"
	"net"
	"time"
)

const (
	defaultKeyBits  = 2048
	defaultValidFor = 365 * 24 * time.Hour
	pemTypeCert     = "CERTIFICATE"
	pemTypeRSAKey   = "RSA PRIVATE KEY"
)

// Template параметры самоподписанного сертификата.
type Template struct {
	Organization string
	// Hosts IP адреса и доменные имена, на которые выписывается сертификат.
	Hosts     []string
	NotBefore time.Time
	ValidFor  time.Duration
	KeyBits   int
}

// Pair сертификат и приватный ключ в формате PEM.
type Pair struct {
	CertPEM []byte
	KeyPEM  []byte
}

// Generator выпускает самоподписанные сертификаты для локального https сервера.
type Generator struct {
	tmpl Template
	now  func() time.Time
}

// NewGenerator создает генератор. По умолчанию сертификат выписывается на localhost,
// 127.0.0.1 и ::1 сроком на год.
func NewGenerator(opts ...func(*Template)) *Generator {
	tmpl := Template{
		Organization: "barky",
		Hosts:        []string{"localhost", "127.0.0.1", "::1"},
		ValidFor:     defaultValidFor,
		KeyBits:      defaultKeyBits,
	}
	for _, opt := range opts {
		opt(&tmpl)
	}
	return &Generator{tmpl: tmpl, now: time.Now}
}

// Generate выпускает новую пару сертификат/ключ.
//
// Возвращает:
//   - Pair: сертификат и ключ в PEM.
//   - error: ошибка генерации ключа или подписи сертификата.
func (g *Generator) Generate() (Pair, error) {
	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128)) //nolint:mnd
	if err != nil {
		return Pair{}, fmt.Errorf("generate serial number: %w", err)
	}

	notBefore := g.tmpl.NotBefore
	if notBefore.IsZero() {
		notBefore = g.now()
	}
	cert := &x509.Certificate{
		SerialNumber: serial,
		Subject: pkix.Name{
			Organization: []string{g.tmpl.Organization},
		},
		NotBefore:             notBefore,
		NotAfter:              notBefore.Add(g.tmpl.ValidFor),
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		KeyUsage:              x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
		BasicConstraintsValid: true,
	}
	for _, h := range g.tmpl.Hosts {
		if ip := net.ParseIP(h); ip != nil {
			cert.IPAddresses = append(cert.IPAddresses, ip)
		} else {
			cert.DNSNames = append(cert.DNSNames, h)
		}
	}

	privKey, err := rsa.GenerateKey(rand.Reader, g.tmpl.KeyBits)
	if err != nil {
		return Pair{}, fmt.Errorf("generate private key: %w", err)
	}
	der, err := x509.CreateCertificate(rand.Reader, cert, cert, &privKey.PublicKey, privKey)
	if err != nil {
		return Pair{}, fmt.Errorf("generate certificate: %w", err)
	}

	var certPEM, keyPEM bytes.Buffer
	if err := pem.Encode(&certPEM, &pem.Block{Type: pemTypeCert, Bytes: der}); err != nil {
		return Pair{}, fmt.Errorf("pem encode certificate: %w", err)
	}
	if err := pem.Encode(&keyPEM, &pem.Block{
		Type:  pemTypeRSAKey,
		Bytes: x509.MarshalPKCS1PrivateKey(privKey),
	}); err != nil {
		return Pair{}, fmt.Errorf("pem encode private key: %w", err)
	}
	return Pair{CertPEM: certPEM.Bytes(), KeyPEM: keyPEM.Bytes()}, nil
}

// Check проверяет, что пара пригодна для запуска сервера прямо сейчас.
//
// Возможные ошибки:
//   - ErrBlankPEM - сертификат или ключ пусты
//   - ErrKeyMismatch - ключ не соответствует сертификату
//   - ErrCertExpired, ErrCertNotValidYet - сертификат вне срока действия.
func (g *Generator) Check(p Pair) error {
	if len(bytes.TrimSpace(p.CertPEM)) == 0 || len(bytes.TrimSpace(p.KeyPEM)) == 0 {
		return ErrBlankPEM
	}

	block, _ := pem.Decode(p.CertPEM)
	if block == nil {
		return errors.New("pem decode: block is nil")
	}
	if block.Type != pemTypeCert {
		return fmt.Errorf("unexpected pem block type %q", block.Type)
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return fmt.Errorf("parse certificate: %w", err)
	}

	if _, err := tls.X509KeyPair(p.CertPEM, p.KeyPEM); err != nil {
		return fmt.Errorf("%w: %s", ErrKeyMismatch, err.Error())
	}

	now := g.now()
	if cert.NotBefore.After(now) {
		return ErrCertNotValidYet
	}
	if cert.NotAfter.Before(now) {
		return ErrCertExpired
	}
	return nil
}
