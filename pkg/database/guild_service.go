// Package database - guild config document access for the moderation
// ledger. The ledger needs fresh reads for its read-modify-write
// cycles, so this service talks to the collection directly instead of
// going through the shared LRU cache.
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/PancyStudios/PancyGuardGo/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GuildCollection is the collection holding one config document per guild.
const GuildCollection = "guilds"

var (
	// ErrNotConnected indica que la base de datos no está disponible
	ErrNotConnected = errors.New("base de datos no conectada")
	// ErrRevisionConflict indica que otro escritor modificó el documento
	// entre el fetch y el replace. El llamador debe serializar sus
	// escrituras por guild; esto es solo la red de seguridad.
	ErrRevisionConflict = errors.New("conflicto de revisión en documento de guild")
)

// GuildService implements fetch-or-create and whole-document replace
// over the guild config collection. Replace does a compare-and-swap on
// the document revision: it only succeeds against the revision the
// caller fetched.
type GuildService struct {
	db *Database
}

var guildService *GuildService

// InitGuildService initializes the global guild service
func InitGuildService(db *Database) *GuildService {
	guildService = &GuildService{db: db}
	return guildService
}

// Guilds returns the global guild service instance
func Guilds() *GuildService {
	return guildService
}

// FetchOrCreate returns the guild config document, inserting a default
// one (sequence 0, empty maps) if the guild has none yet.
func (gs *GuildService) FetchOrCreate(ctx context.Context, guildID string) (*models.GuildConfig, error) {
	col := gs.collection()
	if col == nil {
		return nil, ErrNotConnected
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var cfg models.GuildConfig
	err := col.FindOne(ctx, bson.M{"guildId": guildID}).Decode(&cfg)
	if err == nil {
		return &cfg, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("leyendo config de guild %s: %w", guildID, err)
	}

	now := time.Now().UTC()
	cfg = models.GuildConfig{
		GuildID:   guildID,
		Prefix:    models.DefaultPrefix,
		Revision:  1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := col.InsertOne(ctx, &cfg); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Another writer created it first; read theirs.
			if err2 := col.FindOne(ctx, bson.M{"guildId": guildID}).Decode(&cfg); err2 == nil {
				return &cfg, nil
			}
		}
		return nil, fmt.Errorf("creando config de guild %s: %w", guildID, err)
	}

	logger.Debug(fmt.Sprintf("Config creada para guild %s", guildID), "GuildService")
	return &cfg, nil
}

// Replace writes the whole document back. The write only matches the
// revision the caller fetched; on mismatch it returns
// ErrRevisionConflict and the caller must refetch and redo its change.
func (gs *GuildService) Replace(ctx context.Context, cfg *models.GuildConfig) error {
	col := gs.collection()
	if col == nil {
		return ErrNotConnected
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	prev := cfg.Revision
	cfg.Revision = prev + 1
	cfg.UpdatedAt = time.Now().UTC()

	res := col.FindOneAndUpdate(ctx,
		bson.M{"guildId": cfg.GuildID, "revision": prev},
		bson.M{"$set": bson.M{
			"prefix":    cfg.Prefix,
			"modules":   cfg.Modules,
			"revision":  cfg.Revision,
			"updatedAt": cfg.UpdatedAt,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if err := res.Err(); err != nil {
		cfg.Revision = prev
		if errors.Is(err, mongo.ErrNoDocuments) {
			logger.Warn(fmt.Sprintf("Escritura concurrente detectada en guild %s (rev %d)", cfg.GuildID, prev), "GuildService")
			return ErrRevisionConflict
		}
		return fmt.Errorf("guardando config de guild %s: %w", cfg.GuildID, err)
	}
	return nil
}

func (gs *GuildService) collection() *mongo.Collection {
	if gs == nil || gs.db == nil || !gs.db.Connected() {
		return nil
	}
	return gs.db.GetCollection(GuildCollection)
}
