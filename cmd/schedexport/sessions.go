package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"alcyxob/team-schedule/internal/domain"
	"alcyxob/team-schedule/internal/service"
)

// sessionFile is the on-disk schedule read by the CLI. JSON files work too
// since JSON is valid YAML.
//
//	title: U18 Girls
//	sessions:
//	  - date: 2024-06-03
//	    type: practice
//	    startTime: "17:30"
type sessionFile struct {
	Title    string           `yaml:"title"`
	Sessions []domain.Session `yaml:"sessions"`
}

func loadSessionFile(path string) (*sessionFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decodeSessionFile(f)
}

// decodeSessionFile rejects unknown keys and validates every session the
// same way the API does.
func decodeSessionFile(r io.Reader) (*sessionFile, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file sessionFile
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return &file, nil
		}
		return nil, fmt.Errorf("decode sessions: %w", err)
	}
	for i := range file.Sessions {
		if err := service.NormalizeSession(&file.Sessions[i]); err != nil {
			return nil, fmt.Errorf("session %d: %w", i+1, err)
		}
	}
	return &file, nil
}
