package scheduler

import (
    "context"
    "errors"
    "sync"
    "time"

    "github.com/google/uuid"
    "github.com/redis/go-redis/v9"
    "github.com/sirupsen/logrus"
)

// ErrSweepInProgress is returned when the same sweep is already running in
// this process or, when Redis is configured, on another replica.
var ErrSweepInProgress = errors.New("sweep already in progress")

// releaseScript deletes the lease only if it still carries our token, so a
// lease that expired and was taken by another replica is left alone.
var releaseScript = redis.NewScript(`
    if redis.call('GET', KEYS[1]) == ARGV[1] then
        return redis.call('DEL', KEYS[1])
    end
    return 0
`)

// Locker makes sweeps single-flight.  Inside one process a mutex per job
// is tried without waiting; across replicas a Redis SET NX lease with a
// TTL is taken.  Without Redis only the local guard applies.
type Locker struct {
    rdb    *redis.Client
    prefix string
    ttl    time.Duration
    log    logrus.FieldLogger

    mu    sync.Mutex
    local map[string]*sync.Mutex
}

// NewLocker returns a Locker.  rdb may be nil.
func NewLocker(rdb *redis.Client, prefix string, ttl time.Duration, log logrus.FieldLogger) *Locker {
    if ttl <= 0 {
        ttl = 10 * time.Minute
    }
    return &Locker{rdb: rdb, prefix: prefix, ttl: ttl, log: log, local: map[string]*sync.Mutex{}}
}

func (l *Locker) jobMutex(job string) *sync.Mutex {
    l.mu.Lock()
    defer l.mu.Unlock()
    m, ok := l.local[job]
    if !ok {
        m = &sync.Mutex{}
        l.local[job] = m
    }
    return m
}

// Run executes fn while holding the lock for job, or returns
// ErrSweepInProgress without running it.
func (l *Locker) Run(ctx context.Context, job string, fn func(context.Context) error) error {
    m := l.jobMutex(job)
    if !m.TryLock() {
        return ErrSweepInProgress
    }
    defer m.Unlock()

    if l.rdb != nil {
        key := l.prefix + ":" + job
        token := uuid.NewString()
        ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
        switch {
        case err != nil:
            // Redis being down must not stop the daily sweep; the local
            // guard still holds.
            l.log.WithError(err).WithField("job", job).Warn("sweep lease unavailable, running with local lock only")
        case !ok:
            return ErrSweepInProgress
        default:
            defer func() {
                rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
                defer cancel()
                if err := releaseScript.Run(rctx, l.rdb, []string{key}, token).Err(); err != nil {
                    l.log.WithError(err).WithField("job", job).Warn("sweep lease release failed")
                }
            }()
        }
    }
    return fn(ctx)
}
