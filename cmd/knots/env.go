package main

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/alnah/go-knots/internal/mdimport"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now      func() time.Time
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	Importer *mdimport.Importer // Shared by all workers
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:      time.Now,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Logger:   newLogger(os.Stderr, false, false),
		Importer: mdimport.New(),
	}
}
