package queue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"maitri-diet/internal/infrastructure/config"
	"maitri-diet/internal/pkg/common"
)

var (
	// ErrQueueFull 隊列已滿，工作被丟棄
	ErrQueueFull = errors.New("queue is full")
	// ErrQueueClosed 隊列已關閉
	ErrQueueClosed = errors.New("queue manager is closed")
)

// Job 背景工作
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

// Status 隊列狀態
type Status struct {
	QueueLength    int   `json:"queue_length"`
	ProcessedCount int64 `json:"processed_count"`
	FailedCount    int64 `json:"failed_count"`
	DroppedCount   int64 `json:"dropped_count"`
	MaxQueueSize   int   `json:"max_queue_size"`
	Workers        int   `json:"workers"`
}

// Manager 固定 worker 數量的背景工作隊列
type Manager struct {
	queue      chan Job
	done       chan struct{}
	workers    int
	jobTimeout time.Duration

	mu     sync.RWMutex
	closed bool

	pending sync.WaitGroup
	running sync.WaitGroup

	processed int64
	failed    int64
	dropped   int64
}

// NewManager 創建隊列管理器並啟動 worker
func NewManager(cfg *config.QueueConfig) *Manager {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	size := cfg.MaxSize
	if size <= 0 {
		size = workers
	}

	m := &Manager{
		queue:      make(chan Job, size),
		done:       make(chan struct{}),
		workers:    workers,
		jobTimeout: cfg.JobTimeout,
	}
	for i := 0; i < workers; i++ {
		m.running.Add(1)
		go m.worker()
	}

	common.LogInfo("背景隊列已啟動",
		zap.Int("workers", workers),
		zap.Int("max_queue_size", size),
		zap.Duration("job_timeout", cfg.JobTimeout),
	)
	return m
}

// Enqueue 將工作加入隊列，不會阻塞；隊列已滿時回傳 ErrQueueFull
func (m *Manager) Enqueue(name string, run func(ctx context.Context) error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return ErrQueueClosed
	}

	m.pending.Add(1)
	select {
	case m.queue <- Job{Name: name, Run: run}:
		common.LogDebug("工作已加入隊列",
			zap.String("job", name),
			zap.Int("queue_length", len(m.queue)),
		)
		return nil
	default:
		m.pending.Done()
		atomic.AddInt64(&m.dropped, 1)
		common.LogWarn("隊列已滿，工作被丟棄",
			zap.String("job", name),
			zap.Int("max_queue_size", cap(m.queue)),
		)
		return ErrQueueFull
	}
}

func (m *Manager) worker() {
	defer m.running.Done()

	for {
		select {
		case job := <-m.queue:
			m.run(job)
		case <-m.done:
			// 關閉前把已排入的工作做完
			for {
				select {
				case job := <-m.queue:
					m.run(job)
				default:
					return
				}
			}
		}
	}
}

func (m *Manager) run(job Job) {
	defer m.pending.Done()

	ctx := context.Background()
	if m.jobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.jobTimeout)
		defer cancel()
	}

	start := time.Now()
	err := job.Run(ctx)
	atomic.AddInt64(&m.processed, 1)
	if err != nil {
		atomic.AddInt64(&m.failed, 1)
		common.LogError("背景工作失敗",
			zap.String("job", job.Name),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return
	}
	common.LogDebug("背景工作完成",
		zap.String("job", job.Name),
		zap.Duration("duration", time.Since(start)),
	)
}

// Wait 等待目前已排入的工作完成
func (m *Manager) Wait() {
	m.pending.Wait()
}

// GetQueueStatus 獲取隊列狀態
func (m *Manager) GetQueueStatus() Status {
	return Status{
		QueueLength:    len(m.queue),
		ProcessedCount: atomic.LoadInt64(&m.processed),
		FailedCount:    atomic.LoadInt64(&m.failed),
		DroppedCount:   atomic.LoadInt64(&m.dropped),
		MaxQueueSize:   cap(m.queue),
		Workers:        m.workers,
	}
}

// Close 停止接受新工作，等待 worker 清空隊列或 ctx 到期
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	close(m.done)
	m.mu.Unlock()

	stopped := make(chan struct{})
	go func() {
		m.running.Wait()
		close(stopped)
	}()

	select {
	case <-stopped:
		common.LogInfo("背景隊列已關閉", zap.Int64("processed", atomic.LoadInt64(&m.processed)))
		return nil
	case <-ctx.Done():
		common.LogWarn("背景隊列關閉逾時", zap.Int("remaining", len(m.queue)))
		return ctx.Err()
	}
}
