package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/wordle-core/internal/config"
	"github.com/robalobadob/wordle/apps/wordle-core/internal/httpserver"
	"github.com/robalobadob/wordle/apps/wordle-core/internal/store"
	"github.com/robalobadob/wordle/apps/wordle-core/internal/words"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	setupLogging(cfg)

	vocab, err := loadVocabulary(cfg.WordsFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.WordsFile).Msg("failed to load word list")
	}
	if vocab.Len() == 0 {
		// not fatal here: every new round reports empty_vocabulary instead
		log.Warn().Str("file", cfg.WordsFile).Msg("word list has no valid five-letter words")
	}

	mem := store.NewMemoryStore(cfg.SessionTTL)
	srv := httpserver.New(mem, vocab, httpserver.Options{
		MaxGuesses:     cfg.MaxGuesses,
		SessionTTL:     cfg.SessionTTL,
		RequestTimeout: cfg.RequestTimeout,
		JWTSecret:      cfg.JWTSecret,
		ClientOrigin:   cfg.ClientOrigin,
		DailySalt:      cfg.DailySalt,
	})
	log.Info().Str("addr", cfg.Addr()).Int("words", vocab.Len()).Int("maxGuesses", cfg.MaxGuesses).Msg("starting wordle-core")
	if err := srv.Start(cfg.Addr()); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func setupLogging(cfg config.Config) {
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// loadVocabulary reads path, or the embedded list when path is empty.
func loadVocabulary(path string) (*words.Vocabulary, error) {
	if path == "" {
		return words.Default()
	}
	return words.Load(path)
}
