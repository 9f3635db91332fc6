// Package envx reads configuration overrides from the process environment,
// optionally seeded from .env files.
package envx

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads the given files (".env" when none are given) into the
// environment without overriding variables that are already set.
// Missing files are not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}

// String sets *dst from key when the variable is set and non-empty.
func String(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Int sets *dst from key. Unparseable values are reported and leave *dst untouched.
func Int(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return &Error{Key: key, Value: v, Err: err}
	}
	*dst = n
	return nil
}

// Duration sets *dst from key using time.ParseDuration.
func Duration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return &Error{Key: key, Value: v, Err: err}
	}
	*dst = d
	return nil
}

// Error describes an environment variable that could not be parsed.
type Error struct {
	Key   string
	Value string
	Err   error
}

func (e *Error) Error() string {
	return "invalid value " + strconv.Quote(e.Value) + " for " + e.Key + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }
