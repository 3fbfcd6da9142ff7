package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSecrets(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "dropletbot-keys-test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	t.Setenv(envDigitalOceanToken, "")
	t.Setenv(envDiscordToken, "")
	t.Setenv(envTriggerPhrase, "")

	if _, err := LoadSecrets(tempDir); err == nil {
		t.Error("Expected error for missing key files, got nil")
	}

	files := map[string]string{
		doTokenFile:       "do-secret\n",
		discordTokenFile:  "  discord-secret  ",
		triggerPhraseFile: "Open Sesame\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(tempDir, name), []byte(content), 0600); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}

	secrets, err := LoadSecrets(tempDir)
	if err != nil {
		t.Fatalf("LoadSecrets failed: %v", err)
	}
	if secrets.DigitalOceanToken != "do-secret" {
		t.Errorf("Expected trimmed DO token. Got %q", secrets.DigitalOceanToken)
	}
	if secrets.DiscordToken != "discord-secret" {
		t.Errorf("Expected trimmed Discord token. Got %q", secrets.DiscordToken)
	}
	if secrets.TriggerPhrase != "open sesame" {
		t.Errorf("Expected lower-cased trigger phrase. Got %q", secrets.TriggerPhrase)
	}

	t.Setenv(envDigitalOceanToken, "env-do-secret")

	secrets, err = LoadSecrets(tempDir)
	if err != nil {
		t.Fatalf("LoadSecrets failed: %v", err)
	}
	if secrets.DigitalOceanToken != "env-do-secret" {
		t.Errorf("Expected env var secret. Got %s, want env-do-secret", secrets.DigitalOceanToken)
	}
}

func TestLoadSecretRejectsEmptyFile(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv(envDigitalOceanToken, "")

	if err := os.WriteFile(filepath.Join(tempDir, doTokenFile), []byte("\n"), 0600); err != nil {
		t.Fatalf("Failed to write key file: %v", err)
	}

	if _, err := LoadAPIToken(tempDir); err == nil {
		t.Error("Expected error for empty key file, got nil")
	}
}
