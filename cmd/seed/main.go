// Package main seeds the preset tile catalog. Safe to run once per
// deployment; a non-empty catalog is left untouched.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/tilespeak/tilespeak-server/internal/config"
	"github.com/tilespeak/tilespeak-server/internal/domain"
	"github.com/tilespeak/tilespeak-server/internal/id"
	"github.com/tilespeak/tilespeak-server/internal/logger"
	"github.com/tilespeak/tilespeak-server/internal/store"
)

// presets is the starter tile catalog. Image keys refer to objects that
// must already exist in the configured bucket.
var presets = []domain.BoardChoice{
	{Phrase: "Hello", ImageKey: "noun-hello-4516636.png", Category: "basic"},
	{Phrase: "Goodbye", ImageKey: "noun-siblings-waving-1971039.png", Category: "basic"},
	{Phrase: "Please", ImageKey: "noun-please-4987006.png", Category: "basic"},
	{Phrase: "Thank You", ImageKey: "noun-thank-you-7102732.png", Category: "basic"},
	{Phrase: "I", ImageKey: "noun-me-4066327.png", Category: "ordering"},
	{Phrase: "want", ImageKey: "noun-want-2012632.png", Category: "ordering"},
	{Phrase: "water", ImageKey: "noun-water-7753260.png", Category: "ordering"},
	{Phrase: "soda", ImageKey: "noun-soda-4822996.png", Category: "ordering"},
	{Phrase: "milk", ImageKey: "noun-milk-7660401.png", Category: "ordering"},
	{Phrase: "chocolate milk", ImageKey: "noun-chocolate-milk-5771118.png", Category: "ordering"},
	{Phrase: "juice", ImageKey: "noun-juice-7666649.png", Category: "ordering"},
	{Phrase: "cheeseburger", ImageKey: "noun-cheeseburger-7118544.png", Category: "ordering"},
	{Phrase: "chicken nuggets", ImageKey: "noun-nuggets-1076956.png", Category: "ordering"},
	{Phrase: "spaghetti and meatballs", ImageKey: "noun-noodle-1036694.png", Category: "ordering"},
	{Phrase: "mac and cheese", ImageKey: "noun-macaroni-and-cheese-5637819.png", Category: "ordering"},
	{Phrase: "french fries", ImageKey: "noun-fries-7769414.png", Category: "ordering"},
	{Phrase: "fruit", ImageKey: "noun-fruit-7132056.png", Category: "ordering"},
	{Phrase: "pizza", ImageKey: "noun-pizza-7763509.png", Category: "ordering"},
	{Phrase: "Yes", ImageKey: "noun-yes-7481489.png", Category: "basic"},
	{Phrase: "No", ImageKey: "noun-no-2998708.png", Category: "basic"},
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Seed failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.App.Environment, cfg.App.LogLevel)

	s, err := store.New(cfg.Data.Dir, log)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()

	count, err := s.CountChoices(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		log.Info("catalog already seeded, nothing to do", "count", count)
		return nil
	}

	for _, preset := range presets {
		choice := preset
		choice.ID, err = id.New(id.PrefixChoice)
		if err != nil {
			return err
		}
		choice.InitTimestamps()
		if err := s.CreateChoice(ctx, &choice); err != nil {
			return err
		}
	}

	log.Info("preset catalog seeded", "count", len(presets))
	return nil
}
