package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Backtthefuture/weibocheck/internal/atomicfile"
	"github.com/Backtthefuture/weibocheck/internal/model"
)

// 各阶段快照文件名
const (
	TopicsFile   = "weibo_search_queries.json"
	ResultsFile  = "hotspot_analysis_results.json"
	EnhancedFile = "enhanced_analysis_results.json"
)

// ErrNotFound 快照文件不存在
var ErrNotFound = errors.New("snapshot not found")

// Store 基于目录的 JSON 快照
type Store struct {
	dir string
}

// NewStore 创建快照目录
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir 快照目录
func (s *Store) Dir() string { return s.dir }

// SaveTopics 保存抓取到的话题
func (s *Store) SaveTopics(topics []model.Topic) error {
	return s.save(TopicsFile, topics)
}

// LoadTopics 读取话题快照
func (s *Store) LoadTopics() ([]model.Topic, error) {
	var topics []model.Topic
	if err := s.load(TopicsFile, &topics); err != nil {
		return nil, err
	}
	return topics, nil
}

// SaveResults 保存深度挖掘之前的分析结果
func (s *Store) SaveResults(results []model.AnalysisResult) error {
	return s.save(ResultsFile, results)
}

// LoadResults 读取分析结果快照
func (s *Store) LoadResults() ([]model.AnalysisResult, error) {
	var results []model.AnalysisResult
	if err := s.load(ResultsFile, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// SaveEnhanced 保存深度挖掘之后的结果
func (s *Store) SaveEnhanced(results []model.AnalysisResult) error {
	return s.save(EnhancedFile, results)
}

// LoadEnhanced 读取深度挖掘结果快照
func (s *Store) LoadEnhanced() ([]model.AnalysisResult, error) {
	var results []model.AnalysisResult
	if err := s.load(EnhancedFile, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Store) save(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	return atomicfile.WriteFile(filepath.Join(s.dir, name), data, 0o644)
}

func (s *Store) load(name string, v any) error {
	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal %s: %w", path, err)
	}
	return nil
}
