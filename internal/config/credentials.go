package config

import (
	"os"
	"path/filepath"

	"github.com/guiyumin/ytsum/internal/errs"
	"github.com/joho/godotenv"
)

// LoadCredentials reads the credentials file, which is dotenv-shaped:
// comments, blank lines, and optionally quoted values (one layer of single or
// double quotes is stripped). A missing file is an empty map.
func LoadCredentials(src Sources) (map[string]string, error) {
	path, err := CredentialsPath(src)
	if err != nil {
		return nil, err
	}
	content, err := src.ReadFile(path)
	if err != nil {
		if isNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, &errs.ConfigError{Msg: "failed to read credentials file: " + err.Error()}
	}
	creds, err := godotenv.UnmarshalBytes(content)
	if err != nil {
		return nil, &errs.ConfigError{Msg: "failed to parse credentials file: " + err.Error()}
	}
	return creds, nil
}

// WriteCredentials stores an API key in the credentials file, creating the
// config directory as needed and preserving keys for other providers. The
// file is user-readable only.
func WriteCredentials(provider, key string, src Sources) (string, error) {
	path, err := CredentialsPath(src)
	if err != nil {
		return "", err
	}

	creds, err := LoadCredentials(src)
	if err != nil {
		return "", err
	}
	creds[KeyEnvVar(provider)] = key

	content, err := godotenv.Marshal(creds)
	if err != nil {
		return "", &errs.ConfigError{Msg: "failed to encode credentials: " + err.Error()}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", &errs.ConfigError{Msg: "failed to create config directory: " + err.Error()}
	}
	if err := os.WriteFile(path, []byte(content+"\n"), 0o600); err != nil {
		return "", &errs.ConfigError{Msg: "failed to write credentials file: " + err.Error()}
	}
	return path, nil
}
