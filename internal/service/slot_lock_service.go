package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// =============================================================================
// Errors
// =============================================================================

// ErrSlotHeld is returned when another request is already booking the slot.
var ErrSlotHeld = errors.New("slot is being booked by another request")

// releaseSlotScript deletes the hold only when it still carries our token,
// so an expired hold taken over by another request is left alone.
var releaseSlotScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// =============================================================================
// Constants
// =============================================================================

const (
	// Redis key prefix for slot holds: slot:hold:{physician}:{branch}:{unix}
	RedisSlotHoldKeyPrefix = "slot:hold:"

	// Timeout for individual Redis operations
	slotLockTimeout = 2 * time.Second
)

// =============================================================================
// Types
// =============================================================================

// SlotLock is a held slot. Release it once the booking transaction has
// finished, whatever its outcome.
type SlotLock struct {
	Key   string
	Token string
}

// SlotLockService serializes concurrent bookings of the same slot with a
// short Redis hold (SET NX PX). The database unique index stays the final
// authority; the hold only turns most races into an early conflict.
type SlotLockService struct {
	redisClient *redis.Client
	log         *logrus.Logger
	hold        time.Duration
}

func NewSlotLockService(redisClient *redis.Client, log *logrus.Logger, hold time.Duration) *SlotLockService {
	if hold <= 0 {
		hold = 10 * time.Second
	}
	return &SlotLockService{
		redisClient: redisClient,
		log:         log,
		hold:        hold,
	}
}

// =============================================================================
// Public Methods
// =============================================================================

// Acquire holds the slot starting at at. It returns ErrSlotHeld when another
// request holds it.
func (s *SlotLockService) Acquire(ctx context.Context, physicianID uuid.UUID, branchID int, at time.Time) (*SlotLock, error) {
	opCtx, cancel := context.WithTimeout(ctx, slotLockTimeout)
	defer cancel()

	lock := &SlotLock{
		Key:   SlotHoldKey(physicianID, branchID, at),
		Token: uuid.NewString(),
	}

	ok, err := s.redisClient.SetNX(opCtx, lock.Key, lock.Token, s.hold).Result()
	if err != nil {
		s.log.Warnf("Failed to acquire slot hold %s: %+v", lock.Key, err)
		return nil, err
	}
	if !ok {
		return nil, ErrSlotHeld
	}

	return lock, nil
}

// Release drops the hold if it is still ours. Safe to call with nil.
func (s *SlotLockService) Release(ctx context.Context, lock *SlotLock) {
	if lock == nil {
		return
	}

	opCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), slotLockTimeout)
	defer cancel()

	if err := releaseSlotScript.Run(opCtx, s.redisClient, []string{lock.Key}, lock.Token).Err(); err != nil {
		// The hold expires on its own.
		s.log.Warnf("Failed to release slot hold %s: %+v", lock.Key, err)
	}
}

// =============================================================================
// Helpers
// =============================================================================

func SlotHoldKey(physicianID uuid.UUID, branchID int, at time.Time) string {
	return fmt.Sprintf("%s%s:%d:%d", RedisSlotHoldKeyPrefix, physicianID, branchID, at.Unix())
}
