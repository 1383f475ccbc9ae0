package vessel

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/vessel/pkg/config"
	"github.com/aretw0/vessel/pkg/domain"
	"github.com/aretw0/vessel/pkg/ports"
)

// Artifact returns the exported model for cfg, keyed by the configuration digest.
// A stored artifact is returned as is; otherwise the model is built, exported and saved.
// Concurrent calls for the same digest share one build. The shared build is
// detached from any single caller: a cancelled caller returns ctx.Err() while
// the build continues for the others.
// The boolean reports whether the artifact came from the store.
func (e *Engine) Artifact(ctx context.Context, store ports.ArtifactStore, cfg *config.Config) (*domain.Artifact, bool, error) {
	key, err := cfg.Digest()
	if err != nil {
		return nil, false, err
	}

	if art, err := store.Load(ctx, key); err == nil {
		e.logger.Debug("artifact cache hit", "key", key)
		return art, true, nil
	} else if !errors.Is(err, domain.ErrArtifactNotFound) {
		return nil, false, fmt.Errorf("load artifact %s: %w", key, err)
	}

	shared := context.WithoutCancel(ctx)
	ch := e.group.DoChan(key, func() (any, error) {
		return e.produce(shared, store, key, cfg)
	})
	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, false, res.Err
		}
		return res.Val.(*domain.Artifact), false, nil
	}
}

func (e *Engine) produce(ctx context.Context, store ports.ArtifactStore, key string, cfg *config.Config) (*domain.Artifact, error) {
	model, err := e.Build(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	n, err := e.Export(ctx, model, cfg, &buf)
	if err != nil {
		return nil, err
	}

	art := &domain.Artifact{
		Key:       key,
		Filename:  cfg.Output.Filename,
		Data:      buf.Bytes(),
		Triangles: n,
		Warnings:  model.WarningMessages(),
		CreatedAt: time.Now().UTC(),
	}
	if err := store.Save(ctx, art); err != nil {
		return nil, fmt.Errorf("save artifact %s: %w", key, err)
	}
	e.logger.Info("artifact stored", "key", key, "triangles", n, "bytes", len(art.Data))
	return art, nil
}
