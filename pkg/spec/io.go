package spec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/beatcut/pkg/errors"
)

// Output file names written by WriteFiles.
const (
	YAMLName = "spec.yml"
	JSONName = "spec.json"
)

// Paths are the files written by WriteFiles.
type Paths struct {
	YAML string
	JSON string
}

// All returns both paths, YAML first.
func (p Paths) All() []string {
	return []string{p.YAML, p.JSON}
}

// EncodeYAML renders s as YAML with two-space indentation.
func EncodeYAML(s *Spec) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeJSON renders s as JSON with two-space indentation and a trailing
// newline.
func EncodeJSON(s *Spec) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return append(data, '\n'), nil
}

// ReadYAML parses a YAML spec document.
func ReadYAML(r io.Reader) (*Spec, error) {
	var s Spec
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse yaml spec")
	}
	return &s, nil
}

// ReadJSON parses a JSON spec document.
func ReadJSON(r io.Reader) (*Spec, error) {
	var s Spec
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse json spec")
	}
	return &s, nil
}

// Equivalent reports whether a and b describe the same document. Values are
// compared through their JSON form, so an integer 3 read from YAML equals
// a float 3 read from JSON.
func Equivalent(a, b *Spec) bool {
	ja, err := json.Marshal(a)
	if err != nil {
		return false
	}
	jb, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(ja, jb)
}

// WriteFiles writes s to dir as spec.yml and spec.json.
//
// Both documents are encoded and written to temporary files before either is
// renamed into place, so a failure leaves any previous outputs untouched.
func WriteFiles(dir string, s *Spec) (Paths, error) {
	yml, err := EncodeYAML(s)
	if err != nil {
		return Paths{}, errors.Wrap(errors.ErrCodeInternal, err, "encode spec")
	}
	js, err := EncodeJSON(s)
	if err != nil {
		return Paths{}, errors.Wrap(errors.ErrCodeInternal, err, "encode spec")
	}

	paths := Paths{
		YAML: filepath.Join(dir, YAMLName),
		JSON: filepath.Join(dir, JSONName),
	}

	ymlTmp, err := writeTemp(dir, YAMLName, yml)
	if err != nil {
		return Paths{}, err
	}
	jsTmp, err := writeTemp(dir, JSONName, js)
	if err != nil {
		os.Remove(ymlTmp)
		return Paths{}, err
	}

	if err := os.Rename(ymlTmp, paths.YAML); err != nil {
		os.Remove(ymlTmp)
		os.Remove(jsTmp)
		return Paths{}, errors.Wrap(errors.ErrCodeIO, err, "write %s", paths.YAML)
	}
	if err := os.Rename(jsTmp, paths.JSON); err != nil {
		os.Remove(jsTmp)
		return Paths{}, errors.Wrap(errors.ErrCodeIO, err, "write %s", paths.JSON)
	}
	return paths, nil
}

func writeTemp(dir, name string, data []byte) (string, error) {
	f, err := os.CreateTemp(dir, "."+name+".*")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeIO, err, "create temp file for %s", name)
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", errors.Wrap(errors.ErrCodeIO, err, "write %s", name)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", errors.Wrap(errors.ErrCodeIO, err, "write %s", name)
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		os.Remove(tmp)
		return "", errors.Wrap(errors.ErrCodeIO, err, "write %s", name)
	}
	return tmp, nil
}
