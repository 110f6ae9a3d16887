package backup

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sethvargo/go-retry"

	"github.com/dukerupert/choretrack/internal/store"
)

// s3Client is an interface for testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config holds S3-compatible storage configuration.
type S3Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
}

// Enabled reports whether the configuration is complete enough to upload.
func (c S3Config) Enabled() bool {
	return c.Bucket != "" && c.AccessKey != "" && c.SecretKey != ""
}

// Config holds backup manager configuration.
type Config struct {
	S3         S3Config
	Interval   time.Duration
	Passphrase string
}

// Manager periodically snapshots the database, encrypts the snapshot,
// and uploads it to S3-compatible storage.
type Manager struct {
	mu      sync.RWMutex
	cfg     Config
	db      *sql.DB
	backups *store.BackupStore
	client  s3Client
	logger  *slog.Logger

	lastRun time.Time

	cancel context.CancelFunc
	done   chan struct{}
}

// NewManager creates a backup manager. If the S3 configuration is
// incomplete the manager is disabled and Start is a no-op.
func NewManager(cfg Config, db *sql.DB, backups *store.BackupStore, logger *slog.Logger) *Manager {
	m := &Manager{
		cfg:     cfg,
		db:      db,
		backups: backups,
		logger:  logger.With("component", "backup"),
	}
	if cfg.S3.Enabled() {
		m.client = newS3Client(cfg.S3)
	}
	return m
}

func newS3Client(cfg S3Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

// Enabled reports whether the manager will run backups.
func (m *Manager) Enabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.client != nil
}

// LastRun returns the time of the last successful backup, zero if none.
func (m *Manager) LastRun() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastRun
}

// Start begins the scheduled backup loop.
func (m *Manager) Start(ctx context.Context) {
	if !m.Enabled() {
		m.logger.Info("backups disabled: S3 configuration incomplete")
		return
	}

	interval := m.cfg.Interval
	if interval <= 0 {
		interval = 24 * time.Hour
	}

	m.mu.Lock()
	ctx, m.cancel = context.WithCancel(ctx)
	m.done = make(chan struct{})
	m.mu.Unlock()

	go func() {
		defer close(m.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := m.RunOnce(ctx); err != nil {
					m.logger.Error("scheduled backup failed", "error", err)
				}
			}
		}
	}()
}

// Stop gracefully stops the backup loop.
func (m *Manager) Stop() {
	m.mu.RLock()
	cancel := m.cancel
	done := m.done
	m.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// RunOnce performs a single snapshot-encrypt-upload cycle.
func (m *Manager) RunOnce(ctx context.Context) error {
	m.mu.RLock()
	client := m.client
	bucket := m.cfg.S3.Bucket
	m.mu.RUnlock()

	if client == nil {
		return fmt.Errorf("backup not configured: S3 credentials missing")
	}

	timestamp := time.Now().UTC().Format("2006-01-02T150405Z")
	objectKey := fmt.Sprintf("backups/choretrack-%s.db.enc", timestamp)

	tmpDir := os.TempDir()
	snapshot := filepath.Join(tmpDir, fmt.Sprintf("choretrack-snap-%s.db", timestamp))
	encFile := filepath.Join(tmpDir, fmt.Sprintf("choretrack-snap-%s.db.enc", timestamp))
	defer os.Remove(snapshot)
	defer os.Remove(encFile)

	// VACUUM INTO produces a consistent single-file copy even with WAL enabled
	if _, err := m.db.ExecContext(ctx, "VACUUM INTO ?", snapshot); err != nil {
		return fmt.Errorf("snapshot database: %w", err)
	}

	if err := EncryptFile(snapshot, encFile, m.cfg.Passphrase); err != nil {
		return fmt.Errorf("encrypt snapshot: %w", err)
	}

	size, err := m.upload(ctx, client, bucket, objectKey, encFile)
	if err != nil {
		return err
	}

	if _, err := m.backups.Record(objectKey, size); err != nil {
		return fmt.Errorf("record backup: %w", err)
	}

	m.mu.Lock()
	m.lastRun = time.Now().UTC()
	m.mu.Unlock()

	m.logger.Info("backup uploaded", "key", objectKey, "size_bytes", size)
	return nil
}

// upload sends the encrypted file to S3, retrying transient failures
// with exponential backoff.
func (m *Manager) upload(ctx context.Context, client s3Client, bucket, key, path string) (int64, error) {
	backoff := retry.WithMaxRetries(3, retry.NewExponential(time.Second))

	var size int64
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open encrypted file: %w", err)
		}
		defer f.Close()

		stat, err := f.Stat()
		if err != nil {
			return fmt.Errorf("stat encrypted file: %w", err)
		}
		size = stat.Size()

		_, err = client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:        aws.String(bucket),
			Key:           aws.String(key),
			Body:          f,
			ContentLength: aws.Int64(size),
		})
		if err != nil {
			return retry.RetryableError(fmt.Errorf("upload to s3: %w", err))
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return size, nil
}
