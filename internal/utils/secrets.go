package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// secretsDir - стандартный каталог Docker Secrets внутри контейнера.
const secretsDir = "/run/secrets"

// ReadSecret читает секрет по имени из каталога Docker Secrets.
// Fallback на переменные окружения намеренно отсутствует: секреты
// сервиса живут только в файлах.
func ReadSecret(secretName string) (string, error) {
	// Имя секрета - это имя файла, без разделителей пути
	if secretName == "" || strings.ContainsAny(secretName, `/\`) {
		return "", fmt.Errorf("invalid secret name %q", secretName)
	}

	filePath := filepath.Join(secretsDir, secretName)
	secretBytes, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read secret file %s: %w", filePath, err)
	}

	secret := strings.TrimSpace(string(secretBytes))
	if secret == "" {
		return "", fmt.Errorf("secret file %s is empty", filePath)
	}
	return secret, nil
}
