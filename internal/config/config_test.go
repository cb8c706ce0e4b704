/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"os"
	"testing"
)

type memTokenStore struct {
	values map[string]string
}

func (m *memTokenStore) Get(service, key string) (string, error) {
	v, ok := m.values[service+"/"+key]
	if !ok {
		return "", errors.New("not found")
	}
	return v, nil
}
func (m *memTokenStore) Set(service, key, value string) error {
	m.values[service+"/"+key] = value
	return nil
}
func (m *memTokenStore) Delete(service, key string) error {
	delete(m.values, service+"/"+key)
	return nil
}

func TestEnvOverridesBackendURL(t *testing.T) {
	old := os.Getenv(EnvBackendURL)
	_ = os.Setenv(EnvBackendURL, "https://example.test:8443")
	t.Cleanup(func() { _ = os.Setenv(EnvBackendURL, old) })
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got, want := cfg.Backend.BaseURL, "https://example.test:8443"; got != want {
		t.Fatalf("Backend.BaseURL = %q, want %q", got, want)
	}
}

func TestMergeIncludesEnableServer(t *testing.T) {
	// A file config that sets enable_server must carry through the merge.
	dst := Defaults()
	src := Defaults()
	src.General.EnableServer = true
	mergeInto(&dst, &src)
	if !dst.General.EnableServer {
		t.Fatalf("EnableServer was not merged from file config")
	}
}

func TestMergeIncludesLogging(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Logging.Level = "debug"
	src.Logging.Format = "json"
	src.Logging.Source = true
	src.Logging.File = "C:/tmp/gbd.log"
	mergeInto(&dst, &src)
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || !dst.Logging.Source || dst.Logging.File != "C:/tmp/gbd.log" {
		t.Fatalf("logging fields not merged correctly: %#v", dst.Logging)
	}
}

func TestMergeIncludesCanvasTuning(t *testing.T) {
	dst := Defaults()
	src := AppConfig{}
	src.Canvas.MinScale = 0.25
	src.Canvas.MaxScale = 8
	src.Canvas.TitleBarHeight = 40
	mergeInto(&dst, &src)
	if dst.Canvas.MinScale != 0.25 || dst.Canvas.MaxScale != 8 {
		t.Fatalf("canvas scale bounds not merged: %#v", dst.Canvas)
	}
	if dst.Canvas.TitleBarHeight != 40 {
		t.Fatalf("title bar height not merged: %#v", dst.Canvas)
	}
	// Unset fields keep their defaults.
	if dst.Canvas.ScaleFactor != 1.1 || dst.Canvas.SectionPadding != 5 {
		t.Fatalf("defaults lost during merge: %#v", dst.Canvas)
	}
}

func TestCanvasConfigConversions(t *testing.T) {
	c := Defaults().Canvas
	vc := c.ViewportConfig()
	if vc.MinScale != 0.1 || vc.MaxScale != 4 || vc.ScaleFactor != 1.1 {
		t.Fatalf("viewport config wrong: %#v", vc)
	}
	r := c.Rules()
	if r.Padding != 5 || r.TitleBarHeight != 32 {
		t.Fatalf("containment rules wrong: %#v", r)
	}
}

func TestEnvOverridesLogging(t *testing.T) {
	oldLevel := os.Getenv(EnvLogLevel)
	oldFmt := os.Getenv(EnvLogFormat)
	oldSrc := os.Getenv(EnvLogSource)
	oldFile := os.Getenv(EnvLogFile)
	_ = os.Setenv(EnvLogLevel, "error")
	_ = os.Setenv(EnvLogFormat, "json")
	_ = os.Setenv(EnvLogSource, "1")
	_ = os.Setenv(EnvLogFile, "X:/gbd.log")
	t.Cleanup(func() {
		_ = os.Setenv(EnvLogLevel, oldLevel)
		_ = os.Setenv(EnvLogFormat, oldFmt)
		_ = os.Setenv(EnvLogSource, oldSrc)
		_ = os.Setenv(EnvLogFile, oldFile)
	})
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Logging.Level != "error" || cfg.Logging.Format != "json" || !cfg.Logging.Source || cfg.Logging.File != "X:/gbd.log" {
		t.Fatalf("env overrides not applied to logging: %#v", cfg.Logging)
	}
}

func TestTokenRoundTripThroughStore(t *testing.T) {
	mem := &memTokenStore{values: map[string]string{}}
	SetTokenStore(mem)
	t.Cleanup(func() { SetTokenStore(nil) })

	if err := mem.Set(keyringService, keyringToken, "secret-token"); err != nil {
		t.Fatalf("seed token: %v", err)
	}
	_, tok, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if tok != "secret-token" {
		t.Fatalf("token not loaded from store: %q", tok)
	}
	if err := DeleteToken(); err != nil {
		t.Fatalf("DeleteToken: %v", err)
	}
	if _, err := mem.Get(keyringService, keyringToken); err == nil {
		t.Fatalf("token not deleted")
	}
}
