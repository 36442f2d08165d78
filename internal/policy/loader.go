package policy

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a policy YAML file.
// An empty path returns Default().
func Load(path string) (Policy, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("read policy: %w", err)
	}

	p, err := Parse(data)
	if err != nil {
		return Policy{}, fmt.Errorf("policy %s: %w", path, err)
	}
	return p, nil
}

// Parse decodes policy YAML on top of Default() and validates the result.
// KnownFields(true)로 오타/미사용 필드 즉시 실패
func Parse(data []byte) (Policy, error) {
	p := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return Policy{}, fmt.Errorf("decode policy: %w", err)
	}

	if err := Validate(p); err != nil {
		return Policy{}, err
	}
	return p, nil
}

// Hash returns the SHA-256 of the policy's canonical JSON.
// 주의: map 대신 struct 사용으로 해시 재현성 보장
func (p Policy) Hash() string {
	jsonBytes, _ := json.Marshal(p)
	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:])
}
