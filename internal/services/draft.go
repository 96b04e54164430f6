package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/mathstep-backend/internal/data/drafts"
	"github.com/yungbote/mathstep-backend/internal/domain/content"
	"github.com/yungbote/mathstep-backend/internal/platform/apierr"
	"github.com/yungbote/mathstep-backend/internal/platform/ctxutil"
	"github.com/yungbote/mathstep-backend/internal/platform/keymutex"
	"github.com/yungbote/mathstep-backend/internal/platform/logger"
)

type DraftService interface {
	Get(ctx context.Context) (drafts.Draft, error)
	Save(ctx context.Context, d drafts.Draft) (drafts.Draft, error)
	Clear(ctx context.Context) error
	AddBlock(ctx context.Context, t drafts.BlockType) (drafts.Draft, error)
	UpdateBlock(ctx context.Context, blockID string, t drafts.BlockType, data json.RawMessage) (drafts.Draft, error)
	MoveBlock(ctx context.Context, blockID string, dir drafts.Direction) (drafts.Draft, error)
	DeleteBlock(ctx context.Context, blockID string) (drafts.Draft, error)
	// Publish appends the draft to a lesson and clears it.
	Publish(ctx context.Context, lessonID string) ([]content.Item, error)
}

type draftService struct {
	log     *logger.Logger
	store   drafts.Store
	catalog CatalogService
	locks   *keymutex.Map
}

func NewDraftService(log *logger.Logger, store drafts.Store, catalog CatalogService) DraftService {
	return &draftService{
		log:     log.With("service", "DraftService"),
		store:   store,
		catalog: catalog,
		locks:   keymutex.New(),
	}
}

func owner(ctx context.Context) (string, error) {
	uid := ctxutil.UserID(ctx)
	if uid == uuid.Nil {
		return "", apierr.Unauthorized("unauthorized", "Not authenticated")
	}
	return uid.String(), nil
}

func (ds *draftService) Get(ctx context.Context) (drafts.Draft, error) {
	who, err := owner(ctx)
	if err != nil {
		return nil, err
	}
	d, _, err := ds.store.Load(ctx, who)
	if err != nil {
		return nil, err
	}
	if d == nil {
		d = drafts.Draft{}
	}
	return d, nil
}

// Save replaces the draft. Blocks without an id get one; unknown block types
// and duplicate ids are rejected.
func (ds *draftService) Save(ctx context.Context, d drafts.Draft) (drafts.Draft, error) {
	seen := map[string]bool{}
	clean := make(drafts.Draft, 0, len(d))
	for i, b := range d {
		if !b.Type.Valid() {
			return nil, apierr.BadRequest("invalid_block", fmt.Errorf("block %d: %w: %q", i, drafts.ErrUnknownBlockType, b.Type))
		}
		if b.ID == "" {
			b.ID = uuid.NewString()
		}
		if seen[b.ID] {
			return nil, apierr.BadRequest("invalid_block", fmt.Errorf("block %d: duplicate id %s", i, b.ID))
		}
		seen[b.ID] = true
		if len(b.Data) == 0 {
			b.Data = drafts.DefaultData(b.Type)
		} else if !json.Valid(b.Data) {
			return nil, apierr.BadRequest("invalid_block", fmt.Errorf("block %d: data is not valid JSON", i))
		}
		clean = append(clean, b)
	}
	return ds.edit(ctx, func(drafts.Draft) (drafts.Draft, error) { return clean, nil })
}

func (ds *draftService) Clear(ctx context.Context) error {
	who, err := owner(ctx)
	if err != nil {
		return err
	}
	unlock := ds.locks.Lock(who)
	defer unlock()
	return ds.store.Clear(ctx, who)
}

func (ds *draftService) AddBlock(ctx context.Context, t drafts.BlockType) (drafts.Draft, error) {
	b, err := drafts.NewBlock(t)
	if err != nil {
		return nil, apierr.BadRequest("invalid_block", err)
	}
	return ds.edit(ctx, func(d drafts.Draft) (drafts.Draft, error) { return d.Add(b), nil })
}

func (ds *draftService) UpdateBlock(ctx context.Context, blockID string, t drafts.BlockType, data json.RawMessage) (drafts.Draft, error) {
	return ds.edit(ctx, func(d drafts.Draft) (drafts.Draft, error) {
		var err error
		if t != "" {
			if d, err = d.SetType(blockID, t); err != nil {
				return nil, err
			}
		}
		if len(data) > 0 {
			if d, err = d.Update(blockID, data); err != nil {
				return nil, err
			}
		}
		return d, nil
	})
}

func (ds *draftService) MoveBlock(ctx context.Context, blockID string, dir drafts.Direction) (drafts.Draft, error) {
	return ds.edit(ctx, func(d drafts.Draft) (drafts.Draft, error) { return d.Move(blockID, dir) })
}

func (ds *draftService) DeleteBlock(ctx context.Context, blockID string) (drafts.Draft, error) {
	return ds.edit(ctx, func(d drafts.Draft) (drafts.Draft, error) { return d.Delete(blockID) })
}

func (ds *draftService) Publish(ctx context.Context, lessonID string) ([]content.Item, error) {
	who, err := owner(ctx)
	if err != nil {
		return nil, err
	}
	unlock := ds.locks.Lock(who)
	defer unlock()

	d, ok, err := ds.store.Load(ctx, who)
	if err != nil {
		return nil, err
	}
	if !ok || len(d) == 0 {
		return nil, apierr.BadRequest("empty_draft", errors.New("Draft is empty"))
	}
	items, err := d.Contents()
	if err != nil {
		return nil, apierr.BadRequest("invalid_block", err)
	}
	out, err := ds.catalog.AppendContent(ctx, lessonID, items)
	if err != nil {
		return nil, err
	}
	if err := ds.store.Clear(ctx, who); err != nil {
		ds.log.Warn("Draft published but not cleared", "user_id", who, "error", err)
	}
	ds.log.Info("Published draft", "user_id", who, "lesson_id", lessonID, "blocks", len(d))
	return out, nil
}

func (ds *draftService) edit(ctx context.Context, fn func(drafts.Draft) (drafts.Draft, error)) (drafts.Draft, error) {
	who, err := owner(ctx)
	if err != nil {
		return nil, err
	}
	unlock := ds.locks.Lock(who)
	defer unlock()

	d, _, err := ds.store.Load(ctx, who)
	if err != nil {
		return nil, err
	}
	next, err := fn(d)
	if err != nil {
		return nil, draftError(err)
	}
	if next == nil {
		next = drafts.Draft{}
	}
	if err := ds.store.Save(ctx, who, next); err != nil {
		return nil, err
	}
	return next, nil
}

func draftError(err error) error {
	switch {
	case errors.Is(err, drafts.ErrBlockNotFound):
		return apierr.NotFound("block_not_found", "Block not found")
	case errors.Is(err, drafts.ErrUnknownBlockType), errors.Is(err, drafts.ErrBadDirection):
		return apierr.BadRequest("invalid_block", err)
	}
	var ae *apierr.Error
	if errors.As(err, &ae) {
		return err
	}
	return apierr.BadRequest("invalid_block", err)
}
