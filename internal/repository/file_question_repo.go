package repository

import (
	"bytes"
	"context"
	"dyslexiatutor/internal/model"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// bankExtensions are tried in order when locating a mode's bank file.
var bankExtensions = []string{".json", ".yaml", ".yml"}

type fileQuestionRepo struct {
	dir string
}

// NewFileQuestionRepo reads banks from <dir>/mode<N>.json, one array per
// mode. A mode<N>.yaml or mode<N>.yml file is used when no JSON file exists.
func NewFileQuestionRepo(dir string) QuestionRepo {
	return &fileQuestionRepo{dir: dir}
}

// BankPath is the JSON file holding a mode's questions.
func BankPath(dir string, mode model.Mode) string {
	return bankPathExt(dir, mode, ".json")
}

func bankPathExt(dir string, mode model.Mode, ext string) string {
	return filepath.Join(dir, fmt.Sprintf("mode%s%s", mode, ext))
}

// LocateBank returns the first existing bank file for mode, or the JSON
// path when none exists.
func LocateBank(dir string, mode model.Mode) string {
	for _, ext := range bankExtensions {
		p := bankPathExt(dir, mode, ext)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return BankPath(dir, mode)
}

func (r *fileQuestionRepo) GetByMode(_ context.Context, mode model.Mode) ([]model.Question, error) {
	path := LocateBank(r.dir, mode)
	questions, err := ReadBankFile(path)
	if err != nil {
		return nil, &DataLoadError{Mode: mode, Source: path, Err: err}
	}
	if err := validateBank(mode, questions); err != nil {
		return nil, &DataLoadError{Mode: mode, Source: path, Err: err}
	}
	for i := range questions {
		questions[i].Mode = mode
	}
	return questions, nil
}

// ReadBankFile decodes an array of questions. Files ending in .yaml or .yml
// are read as YAML and reject unknown keys; anything else is JSON.
func ReadBankFile(path string) ([]model.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var questions []model.Question
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&questions); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
		}
	default:
		if err := json.Unmarshal(data, &questions); err != nil {
			return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
		}
	}
	return questions, nil
}
