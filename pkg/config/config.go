package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	xdgAppName = "tasks"
	configFile = "config.json"

	defaultDBFile  = "tasks.db"
	defaultLogFile = "sync.log"
)

type Config struct {
	DB           string `json:"db"`
	TaskList     string `json:"tasklist"`
	ClientSecret string `json:"client_secret"`
	Token        string `json:"token"`
	MoveLimit    int    `json:"move_limit"`
	MoveDelayMS  int    `json:"move_delay_ms"`
	Log          string `json:"log"`
}

func GetConfigPath() (string, error) {
	xdgHome, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(xdgHome, ".config", xdgAppName, configFile), nil
}

func defaults() (*Config, error) {
	xdgHome, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(xdgHome, ".config", xdgAppName)
	return &Config{
		DB:          filepath.Join(dir, defaultDBFile),
		TaskList:    "@default",
		MoveDelayMS: 120,
		Log:         filepath.Join(dir, defaultLogFile),
	}, nil
}

func Load() (*Config, error) {
	def, err := defaults()
	if err != nil {
		return nil, err
	}

	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return def, nil
		}
		return nil, err
	}
	defer f.Close()

	var cfg Config
	if err := json.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.DB == "" {
		cfg.DB = def.DB
	}
	if cfg.TaskList == "" {
		cfg.TaskList = def.TaskList
	}
	if cfg.MoveDelayMS == 0 {
		cfg.MoveDelayMS = def.MoveDelayMS
	}
	if cfg.Log == "" {
		cfg.Log = def.Log
	}
	return &cfg, nil
}

func Save(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open config file for writing: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	return encoder.Encode(cfg)
}
