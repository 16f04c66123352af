// Package moderation implements the per-guild moderation case ledger:
// case number allocation, the case index, the warning ledger, case
// logging to the mod-log channel and the reason/duration amendment
// flow.
//
// Contract: the store only offers whole-document fetch and replace, so
// every read-modify-write here is only safe if the CALLER serializes
// mutations per guild. Use GuildLocker (or any per-guild single-writer
// scheme) around every Ledger/CaseLogger mutation; nothing in this
// package takes that lock itself. The store's revision check catches
// violations after the fact, it does not prevent them.
package moderation

import (
	"context"
	"sync"

	"github.com/PancyStudios/PancyGuardGo/pkg/models"
)

// ConfigStore es el acceso al documento de configuración por guild.
// Implementado por database.GuildService; los tests usan un fake.
type ConfigStore interface {
	FetchOrCreate(ctx context.Context, guildID string) (*models.GuildConfig, error)
	Replace(ctx context.Context, cfg *models.GuildConfig) error
}

// GuildLocker serializes ledger mutations per guild within this
// process. Callers hold the lock across a whole fetch-mutate-replace
// cycle. It does not protect against other bot instances sharing the
// database; that stays an explicit deployment assumption.
type GuildLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewGuildLocker creates an empty GuildLocker
func NewGuildLocker() *GuildLocker {
	return &GuildLocker{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for a guild and returns its unlock func.
func (gl *GuildLocker) Lock(guildID string) func() {
	gl.mu.Lock()
	m, ok := gl.locks[guildID]
	if !ok {
		m = &sync.Mutex{}
		gl.locks[guildID] = m
	}
	gl.mu.Unlock()

	m.Lock()
	return m.Unlock
}
