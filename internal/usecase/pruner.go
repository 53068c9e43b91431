package usecase

import (
	"context"
	"log"
	"time"

	"smartchat/internal/domain/repository"
)

// Pruner deletes chat log entries older than the configured retention
// window. It is a no-op while pruning is disabled or retention is not a
// positive number of days.
type Pruner struct {
	logs     repository.ChatLogStore
	settings *SettingsResolver
}

func NewPruner(logs repository.ChatLogStore, settings *SettingsResolver) *Pruner {
	return &Pruner{logs: logs, settings: settings}
}

// Run prunes once immediately and then on every tick until ctx is done.
func (p *Pruner) Run(ctx context.Context, interval time.Duration) {
	if _, err := p.PruneOnce(ctx); err != nil {
		log.Printf("[PRUNER] prune failed: %v", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if _, err := p.PruneOnce(ctx); err != nil {
				log.Printf("[PRUNER] prune failed: %v", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

func (p *Pruner) PruneOnce(ctx context.Context) (int64, error) {
	settings := p.settings.Settings(ctx)
	if !settings.PruningEnabled || settings.PruneDays <= 0 {
		return 0, nil
	}

	retention := time.Duration(settings.PruneDays) * 24 * time.Hour
	deleted, err := p.logs.PruneOlderThan(ctx, retention)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		log.Printf("[PRUNER] deleted %d chat log entries older than %d days", deleted, settings.PruneDays)
	}
	return deleted, nil
}
