package tlscert

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

const (
	DefaultCertPath = "cert.pem"
	DefaultKeyPath  = "key.pem"
)

// Files пара файлов сертификата и ключа на диске.
type Files struct {
	CertPath string
	KeyPath  string

	gen    *Generator
	logger *zap.Logger
}

// NewFiles создает менеджер файлов сертификата. Пустые пути заменяются значениями по умолчанию.
func NewFiles(certPath, keyPath string, gen *Generator, logger *zap.Logger) *Files {
	if certPath == "" {
		certPath = DefaultCertPath
	}
	if keyPath == "" {
		keyPath = DefaultKeyPath
	}
	if gen == nil {
		gen = NewGenerator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Files{CertPath: certPath, KeyPath: keyPath, gen: gen, logger: logger}
}

// Read читает пару с диска. Отсутствующий файл читается как пустой.
func (f *Files) Read() (Pair, error) {
	certPEM, err := readOptional(f.CertPath)
	if err != nil {
		return Pair{}, fmt.Errorf("read certificate file: %w", err)
	}
	keyPEM, err := readOptional(f.KeyPath)
	if err != nil {
		return Pair{}, fmt.Errorf("read key file: %w", err)
	}
	return Pair{CertPEM: certPEM, KeyPEM: keyPEM}, nil
}

// Ensure проверяет пару на диске и перевыпускает ее, если файлов нет, они пусты,
// сертификат вне срока действия или ключ от другого сертификата.
//
// Возвращает:
//   - bool: true, если пара была перевыпущена.
//   - error: ошибка чтения, генерации или записи.
func (f *Files) Ensure() (bool, error) {
	pair, err := f.Read()
	if err != nil {
		return false, err
	}

	errCheck := f.gen.Check(pair)
	if errCheck == nil {
		return false, nil
	}
	if !isReplaceable(errCheck) {
		return false, fmt.Errorf("check certificate and private key: %w", errCheck)
	}

	f.logger.Info("generating self-signed certificate",
		zap.String("cert", f.CertPath),
		zap.String("key", f.KeyPath),
		zap.String("reason", errCheck.Error()),
	)
	fresh, errGen := f.gen.Generate()
	if errGen != nil {
		return false, fmt.Errorf("generate certificate and private key: %w", errGen)
	}
	if err := writeFile(f.CertPath, fresh.CertPEM); err != nil {
		return false, fmt.Errorf("save certificate: %w", err)
	}
	if err := writeFile(f.KeyPath, fresh.KeyPEM); err != nil {
		return false, fmt.Errorf("save private key: %w", err)
	}
	return true, nil
}

func isReplaceable(err error) bool {
	return errors.Is(err, ErrBlankPEM) ||
		errors.Is(err, ErrCertExpired) ||
		errors.Is(err, ErrCertNotValidYet) ||
		errors.Is(err, ErrKeyMismatch)
}

func readOptional(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return data, nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil { //nolint:mnd
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
