// Package config holds the JSON settings file shared by the binaries.
package config

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/montplusa/connect-four/pkg/game"
)

// DefaultPath is where the binaries look when -config is not given.
const DefaultPath = "connect4.json"

type ModelSettings struct {
	Kind string `json:"kind,omitempty"`
	Path string `json:"path,omitempty"`
	Seed int64  `json:"seed,omitempty"`
}

type ServerSettings struct {
	Addr string `json:"addr,omitempty"`
}

type Settings struct {
	Board  game.Config     `json:"board"`
	Policy game.Policy     `json:"policy"`
	Model  *ModelSettings  `json:"model,omitempty"`
	Server *ServerSettings `json:"server,omitempty"`
}

func NewSettings() *Settings {
	return &Settings{
		Board:  game.DefaultConfig(),
		Policy: game.DefaultPolicy(),
		Model: &ModelSettings{
			Kind: "random",
		},
		Server: &ServerSettings{
			Addr: ":8080",
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Settings, error) {
	settings := NewSettings()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return settings, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	if settings.Model == nil {
		settings.Model = NewSettings().Model
	}
	if settings.Server == nil {
		settings.Server = NewSettings().Server
	}
	if err := settings.Board.Validate(); err != nil {
		return nil, errors.WithMessagef(err, "settings %s", path)
	}
	return settings, nil
}

func Store(path string, settings *Settings) error {
	if settings == nil {
		panic(errors.New("settings is nil"))
	}
	data, err := json.MarshalIndent(settings, "", "    ")
	if err != nil {
		return err
	}
	return errors.Wrapf(os.WriteFile(path, data, 0666), "write %s", path)
}
