package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/lumitree/internal/config"
)

func initConfig(_ *cobra.Command, args []string) error {
	path := "lumitree.yaml"
	if len(args) == 1 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	cfg := config.DefaultConfig()
	// Write the preset playlists inline so they are easy to edit.
	cfg.Playlists = config.GetPreset(cfg.Preset)
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Println("wrote", path)
	return nil
}

func checkConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	reg := newRegistry(cfg, nil)
	if _, err := buildPlaylists(cfg, reg); err != nil {
		return err
	}
	if _, err := buildModel(cfg); err != nil {
		return err
	}
	fmt.Println("configuration ok")
	return nil
}
