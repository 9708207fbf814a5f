package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/NaveedSindha/health-wellness-tracker/internal"
)

type FileStorage struct {
	logs           map[string]map[string]*internal.DailyLog // userID -> date -> DailyLog
	goals          map[string]*internal.Goal                // id -> Goal
	mu             sync.RWMutex
	logsFile       string
	goalsFile      string
	saveLogsChan   chan struct{}
	saveGoalsChan  chan struct{}
	shutdownChan   chan struct{}
	closeOnce      sync.Once
	workers        sync.WaitGroup
	saveLogsDelay  time.Duration
	saveGoalsDelay time.Duration
	logger         internal.Logger
}

func NewFileStorage(logsFile, goalsFile string, logger internal.Logger) (*FileStorage, error) {
	s := &FileStorage{
		logs:           make(map[string]map[string]*internal.DailyLog),
		goals:          make(map[string]*internal.Goal),
		logsFile:       logsFile,
		goalsFile:      goalsFile,
		saveLogsChan:   make(chan struct{}, 1),
		saveGoalsChan:  make(chan struct{}, 1),
		shutdownChan:   make(chan struct{}),
		saveLogsDelay:  500 * time.Millisecond,
		saveGoalsDelay: 500 * time.Millisecond,
		logger:         logger,
	}

	for _, f := range []string{logsFile, goalsFile} {
		if err := os.MkdirAll(filepath.Dir(f), 0755); err != nil {
			return nil, err
		}
	}
	if err := s.loadLogs(); err != nil {
		logger.Errorf("storage: failed to load daily logs: %v", err)
		return nil, err
	}
	if err := s.loadGoals(); err != nil {
		logger.Errorf("storage: failed to load goals: %v", err)
		return nil, err
	}

	s.workers.Add(2)
	go s.saveWorker(s.saveLogsChan, s.saveLogsDelay, s.saveLogs, "daily logs")
	go s.saveWorker(s.saveGoalsChan, s.saveGoalsDelay, s.saveGoals, "goals")

	return s, nil
}

func dateKey(t time.Time) string {
	return t.Format(internal.DateLayout)
}

// decodeFile reads a JSON array from path. A missing or empty file is not
// an error.
func decodeFile(path string, v interface{}) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (s *FileStorage) loadLogs() error {
	var logs []*internal.DailyLog
	if err := decodeFile(s.logsFile, &logs); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range logs {
		l.Date = internal.DateOf(l.Date)
		if s.logs[l.UserID] == nil {
			s.logs[l.UserID] = make(map[string]*internal.DailyLog)
		}
		s.logs[l.UserID][dateKey(l.Date)] = l
	}
	return nil
}

func (s *FileStorage) loadGoals() error {
	var goals []*internal.Goal
	if err := decodeFile(s.goalsFile, &goals); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range goals {
		s.goals[g.ID] = g
	}
	return nil
}

func atomicWriteFileJSON(filePath string, data interface{}) error {
	tempFile := filePath + ".tmp"
	f, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, filePath)
}

func (s *FileStorage) saveLogs() error {
	s.mu.RLock()
	logs := make([]internal.DailyLog, 0)
	for _, byDate := range s.logs {
		for _, l := range byDate {
			logs = append(logs, *l)
		}
	}
	s.mu.RUnlock()

	sort.Slice(logs, func(i, j int) bool {
		if logs[i].UserID != logs[j].UserID {
			return logs[i].UserID < logs[j].UserID
		}
		return logs[i].Date.Before(logs[j].Date)
	})
	return atomicWriteFileJSON(s.logsFile, logs)
}

func (s *FileStorage) saveGoals() error {
	s.mu.RLock()
	goals := make([]internal.Goal, 0, len(s.goals))
	for _, g := range s.goals {
		goals = append(goals, *g)
	}
	s.mu.RUnlock()

	sort.Slice(goals, func(i, j int) bool { return goals[i].CreatedAt.Before(goals[j].CreatedAt) })
	return atomicWriteFileJSON(s.goalsFile, goals)
}

// saveWorker batches save requests so bursts of writes hit the disk once.
func (s *FileStorage) saveWorker(signal <-chan struct{}, delay time.Duration, save func() error, what string) {
	defer s.workers.Done()
	timer := time.NewTimer(delay)
	defer timer.Stop()

	for {
		select {
		case <-signal:
			timer.Reset(delay)
		case <-timer.C:
			if err := save(); err != nil {
				s.logger.Errorf("storage: error saving %s: %v", what, err)
			}
		case <-s.shutdownChan:
			return
		}
	}
}

func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// Close stops the save workers, waits for an in-flight save to finish and
// writes pending data synchronously.
func (s *FileStorage) Close() error {
	s.closeOnce.Do(func() { close(s.shutdownChan) })
	s.workers.Wait()

	if err := s.saveLogs(); err != nil {
		return err
	}
	return s.saveGoals()
}

// --- DailyLogRepository ---
func (s *FileStorage) CreateLog(ctx context.Context, log *internal.DailyLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := dateKey(log.Date)
	byDate := s.logs[log.UserID]
	if byDate == nil {
		byDate = make(map[string]*internal.DailyLog)
		s.logs[log.UserID] = byDate
	}
	if _, ok := byDate[key]; ok {
		return internal.ErrLogExists
	}
	stored := *log
	byDate[key] = &stored
	notify(s.saveLogsChan)
	return nil
}

func (s *FileStorage) UpdateLog(ctx context.Context, log *internal.DailyLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := dateKey(log.Date)
	if _, ok := s.logs[log.UserID][key]; !ok {
		return internal.ErrLogNotFound
	}
	stored := *log
	s.logs[log.UserID][key] = &stored
	notify(s.saveLogsChan)
	return nil
}

func (s *FileStorage) GetLog(ctx context.Context, userID string, date time.Time) (*internal.DailyLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.logs[userID][dateKey(date)]
	if !ok {
		return nil, internal.ErrLogNotFound
	}
	out := *l
	return &out, nil
}

func (s *FileStorage) ListLogs(ctx context.Context, userID string) ([]internal.DailyLog, error) {
	return s.ListLogsInRange(ctx, userID, time.Time{}, time.Time{})
}

// ListLogsInRange treats a zero bound as unbounded.
func (s *FileStorage) ListLogsInRange(ctx context.Context, userID string, from, to time.Time) ([]internal.DailyLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	logs := []internal.DailyLog{}
	for _, l := range s.logs[userID] {
		if !from.IsZero() && l.Date.Before(from) {
			continue
		}
		if !to.IsZero() && !l.Date.Before(to) {
			continue
		}
		logs = append(logs, *l)
	}
	sort.Slice(logs, func(i, j int) bool { return logs[i].Date.Before(logs[j].Date) })
	return logs, nil
}

func (s *FileStorage) DeleteLog(ctx context.Context, userID string, date time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := dateKey(date)
	if _, ok := s.logs[userID][key]; !ok {
		return internal.ErrLogNotFound
	}
	delete(s.logs[userID], key)
	notify(s.saveLogsChan)
	return nil
}

// --- GoalRepository ---
func (s *FileStorage) CreateGoal(ctx context.Context, goal *internal.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *goal
	s.goals[goal.ID] = &stored
	notify(s.saveGoalsChan)
	return nil
}

func (s *FileStorage) GetGoal(ctx context.Context, goalID string) (*internal.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.goals[goalID]
	if !ok {
		return nil, internal.ErrGoalNotFound
	}
	out := *g
	if g.CompletedAt != nil {
		at := *g.CompletedAt
		out.CompletedAt = &at
	}
	return &out, nil
}

func (s *FileStorage) ListGoals(ctx context.Context, userID string, activeOnly bool) ([]internal.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	goals := []internal.Goal{}
	for _, g := range s.goals {
		if g.UserID != userID || (activeOnly && g.Completed) {
			continue
		}
		goals = append(goals, *g)
	}
	sort.Slice(goals, func(i, j int) bool { return goals[i].CreatedAt.Before(goals[j].CreatedAt) })
	return goals, nil
}

func (s *FileStorage) DeleteGoal(ctx context.Context, userID, goalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.goals[goalID]
	if !ok || g.UserID != userID {
		return internal.ErrGoalNotFound
	}
	delete(s.goals, goalID)
	notify(s.saveGoalsChan)
	return nil
}

func (s *FileStorage) MarkGoalCompleted(ctx context.Context, goalID string, completedAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.goals[goalID]
	if !ok || g.Completed {
		return false, nil
	}
	at := completedAt
	g.Completed = true
	g.CompletedAt = &at
	notify(s.saveGoalsChan)
	return true, nil
}

// --- Compile-time assertions ---
var _ DailyLogRepository = (*FileStorage)(nil)
var _ GoalRepository = (*FileStorage)(nil)
