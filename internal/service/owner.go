package service

import (
    "context"
    "fmt"
    "strings"
    "time"

    "github.com/sirupsen/logrus"

    "github.com/iliyamo/stay-reservation/internal/model"
    "github.com/iliyamo/stay-reservation/internal/repository"
)

// BlockInput describes a block placed by an owner.
type BlockInput struct {
    StartDate time.Time
    EndDate   time.Time // inclusive
    BlockType model.BlockType
    Reason    string
}

// OverrideInput describes a price override.
type OverrideInput struct {
    StartDate          time.Time
    EndDate            time.Time // inclusive
    PricePerNightCents int64
    Priority           int
    Description        string
}

// ListBlocks returns every block of a property to its owner or an admin.
func (s *Service) ListBlocks(ctx context.Context, actor model.Actor, propertyID uint64) ([]model.AvailabilityBlock, error) {
    if _, err := s.authorizeOwner(ctx, actor, propertyID); err != nil {
        return nil, err
    }
    list, err := s.store.Blocks(ctx, propertyID)
    return list, translate(err)
}

// CreateBlock stores a manual or maintenance block.  Blocks are not
// checked against existing bookings; they only stop future ones.
func (s *Service) CreateBlock(ctx context.Context, actor model.Actor, propertyID uint64, in BlockInput) (model.AvailabilityBlock, error) {
    start, end := model.Date(in.StartDate), model.Date(in.EndDate)
    if end.Before(start) {
        return model.AvailabilityBlock{}, validationf("end_date must not be before start_date")
    }
    if in.BlockType == "" {
        in.BlockType = model.BlockManual
    }
    if in.BlockType != model.BlockManual && in.BlockType != model.BlockMaintenance {
        return model.AvailabilityBlock{}, validationf("block_type must be manual or maintenance")
    }
    if len(in.Reason) > maxReasonLen {
        return model.AvailabilityBlock{}, validationf("reason must be at most %d characters", maxReasonLen)
    }
    if _, err := s.authorizeOwner(ctx, actor, propertyID); err != nil {
        return model.AvailabilityBlock{}, err
    }
    blk := model.AvailabilityBlock{
        PropertyID: propertyID,
        StartDate:  start,
        EndDate:    end,
        BlockType:  in.BlockType,
        Reason:     strings.TrimSpace(in.Reason),
        IsActive:   true,
        CreatedAt:  s.now(),
    }
    err := s.store.Atomic(ctx, propertyID, func(tx repository.Tx) error {
        return tx.InsertBlock(ctx, &blk)
    })
    if err != nil {
        return model.AvailabilityBlock{}, translate(err)
    }
    s.log.WithFields(logrus.Fields{"property": propertyID, "block": blk.ID}).Info("availability block created")
    return blk, nil
}

// DeleteBlock removes a manual or maintenance block.  Blocks created
// alongside a booking go away only when that booking is cancelled.
func (s *Service) DeleteBlock(ctx context.Context, actor model.Actor, propertyID, blockID uint64) error {
    if _, err := s.authorizeOwner(ctx, actor, propertyID); err != nil {
        return err
    }
    blocks, err := s.store.Blocks(ctx, propertyID)
    if err != nil {
        return translate(err)
    }
    var found *model.AvailabilityBlock
    for i := range blocks {
        if blocks[i].ID == blockID {
            found = &blocks[i]
            break
        }
    }
    if found == nil {
        return fmt.Errorf("%w: block %d", ErrNotFound, blockID)
    }
    if found.BookingID != nil {
        return fmt.Errorf("%w: block %d belongs to a booking; cancel the booking instead", ErrInvalidState, blockID)
    }
    err = s.store.Atomic(ctx, propertyID, func(tx repository.Tx) error {
        return tx.DeleteBlock(ctx, propertyID, blockID)
    })
    return translate(err)
}

func validateOverride(in OverrideInput) error {
    if model.Date(in.EndDate).Before(model.Date(in.StartDate)) {
        return validationf("end_date must not be before start_date")
    }
    if in.PricePerNightCents <= 0 {
        return validationf("price_per_night_cents must be positive")
    }
    if len(in.Description) > maxReasonLen {
        return validationf("description must be at most %d characters", maxReasonLen)
    }
    return nil
}

// ListOverrides returns every price override of a property.
func (s *Service) ListOverrides(ctx context.Context, actor model.Actor, propertyID uint64) ([]model.PriceOverride, error) {
    if _, err := s.authorizeOwner(ctx, actor, propertyID); err != nil {
        return nil, err
    }
    list, err := s.store.PropertyOverrides(ctx, propertyID)
    return list, translate(err)
}

// CreateOverride stores a new price override.
func (s *Service) CreateOverride(ctx context.Context, actor model.Actor, propertyID uint64, in OverrideInput) (model.PriceOverride, error) {
    if err := validateOverride(in); err != nil {
        return model.PriceOverride{}, err
    }
    if _, err := s.authorizeOwner(ctx, actor, propertyID); err != nil {
        return model.PriceOverride{}, err
    }
    now := s.now()
    o := model.PriceOverride{
        PropertyID:         propertyID,
        StartDate:          model.Date(in.StartDate),
        EndDate:            model.Date(in.EndDate),
        PricePerNightCents: in.PricePerNightCents,
        Priority:           in.Priority,
        Description:        strings.TrimSpace(in.Description),
        CreatedAt:          now,
        UpdatedAt:          now,
    }
    if err := s.store.InsertOverride(ctx, &o); err != nil {
        return model.PriceOverride{}, translate(err)
    }
    return o, nil
}

// UpdateOverride rewrites an override of the property.
func (s *Service) UpdateOverride(ctx context.Context, actor model.Actor, propertyID, overrideID uint64, in OverrideInput) (model.PriceOverride, error) {
    if err := validateOverride(in); err != nil {
        return model.PriceOverride{}, err
    }
    if _, err := s.authorizeOwner(ctx, actor, propertyID); err != nil {
        return model.PriceOverride{}, err
    }
    o, err := s.store.Override(ctx, overrideID)
    if err != nil {
        return model.PriceOverride{}, translate(err)
    }
    if o.PropertyID != propertyID {
        return model.PriceOverride{}, fmt.Errorf("%w: price override %d", ErrNotFound, overrideID)
    }
    o.StartDate = model.Date(in.StartDate)
    o.EndDate = model.Date(in.EndDate)
    o.PricePerNightCents = in.PricePerNightCents
    o.Priority = in.Priority
    o.Description = strings.TrimSpace(in.Description)
    o.UpdatedAt = s.now()
    if err := s.store.UpdateOverride(ctx, &o); err != nil {
        return model.PriceOverride{}, translate(err)
    }
    return o, nil
}

// DeleteOverride removes an override of the property.
func (s *Service) DeleteOverride(ctx context.Context, actor model.Actor, propertyID, overrideID uint64) error {
    if _, err := s.authorizeOwner(ctx, actor, propertyID); err != nil {
        return err
    }
    return translate(s.store.DeleteOverride(ctx, propertyID, overrideID))
}
