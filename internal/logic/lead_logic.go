package logic

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/blues/lms/internal/config"
	"github.com/blues/lms/internal/identity"
	"github.com/blues/lms/internal/logger"
	"github.com/blues/lms/internal/model"
	"github.com/panjf2000/ants/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// fingerprintQueryChunk 查询已有指纹时 IN 子句的分块大小
const fingerprintQueryChunk = 500

// RawContact 外部提交的原始联系人记录，不落库
type RawContact struct {
	Email         string  `json:"email"`
	Phone         string  `json:"phone"`
	CompanyDomain string  `json:"company_domain"`
	CompanyName   string  `json:"company_name"`
	Price         float64 `json:"price"`
}

// Fingerprint 计算该记录的身份指纹
func (r *RawContact) Fingerprint() string {
	return identity.HashKey(r.Email, r.CompanyDomain, r.Phone)
}

// DedupeResult 去重结果：新记录与重复记录的划分及计数
type DedupeResult struct {
	New            []RawContact `json:"new"`
	Duplicates     []RawContact `json:"duplicates"`
	NewCount       int          `json:"new_count"`
	DuplicateCount int          `json:"duplicate_count"`
	TotalCount     int          `json:"total_count"`
}

// IngestResult 批量导入结果
type IngestResult struct {
	Inserted   int `json:"inserted"`
	Duplicates int `json:"duplicates"`
	Total      int `json:"total"`
}

// LeadLogic 线索业务逻辑
type LeadLogic struct {
	db  *gorm.DB
	cfg config.MarketplaceConfig
}

// NewLeadLogic 创建线索业务逻辑
func NewLeadLogic(db *gorm.DB, cfg config.MarketplaceConfig) *LeadLogic {
	return &LeadLogic{db: db, cfg: cfg}
}

// DetectDuplicates 批量去重检查。一条记录是重复的，当且仅当它的指纹在本批次开始前
// 已存在于该工作区，或与本批次中更早出现的记录指纹相同（先到先得）。
// 指纹计算和集合判重均为 O(1)，整批只查询一次已有指纹。
func (l *LeadLogic) DetectDuplicates(ctx context.Context, workspaceID string, records []RawContact) (*DedupeResult, error) {
	if workspaceID == "" {
		return nil, errors.New("工作区ID不能为空")
	}

	fingerprints := make([]string, len(records))
	for i := range records {
		fingerprints[i] = records[i].Fingerprint()
	}

	known, err := l.loadKnownFingerprints(ctx, workspaceID, fingerprints)
	if err != nil {
		return nil, err
	}

	result := &DedupeResult{TotalCount: len(records)}
	seen := make(map[string]struct{}, len(records))

	for i, record := range records {
		fp := fingerprints[i]

		_, inBatch := seen[fp]
		_, inIndex := known[fp]
		if inBatch || inIndex {
			result.Duplicates = append(result.Duplicates, record)
			continue
		}

		seen[fp] = struct{}{}
		result.New = append(result.New, record)
	}

	result.NewCount = len(result.New)
	result.DuplicateCount = len(result.Duplicates)

	return result, nil
}

// IngestLeads 批量导入线索。记录按配置分块，由协程池并发写入；
// 每块使用 ON CONFLICT DO NOTHING 插入，指纹唯一索引保证并发批次
// 不会重复落库同一指纹，无需先查询再插入。取消 ctx 可以安全中止，
// 已写入的块保持完整，不会留下部分状态。
func (l *LeadLogic) IngestLeads(ctx context.Context, workspaceID string, partnerID uint, records []RawContact) (*IngestResult, error) {
	if workspaceID == "" {
		return nil, errors.New("工作区ID不能为空")
	}

	result := &IngestResult{Total: len(records)}
	if len(records) == 0 {
		return result, nil
	}

	chunkSize := l.cfg.IngestChunkSize
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	workers := l.cfg.IngestWorkers
	if workers <= 0 {
		workers = 4
	}

	// 批内先去重（先到先得），落库只处理批内唯一的记录
	dedupedLeads := make([]model.Lead, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	inBatchDuplicates := 0
	for i := range records {
		fp := records[i].Fingerprint()
		if _, ok := seen[fp]; ok {
			inBatchDuplicates++
			continue
		}
		seen[fp] = struct{}{}
		dedupedLeads = append(dedupedLeads, model.Lead{
			WorkspaceID:   workspaceID,
			PartnerID:     partnerID,
			Email:         records[i].Email,
			Phone:         records[i].Phone,
			CompanyDomain: records[i].CompanyDomain,
			CompanyName:   records[i].CompanyName,
			Fingerprint:   fp,
			Price:         records[i].Price,
			Status:        string(model.LeadStatusAvailable),
		})
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("创建协程池失败: %w", err)
	}
	defer pool.Release()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		inserted int
		firstErr error
	)

	for start := 0; start < len(dedupedLeads); start += chunkSize {
		end := start + chunkSize
		if end > len(dedupedLeads) {
			end = len(dedupedLeads)
		}
		chunk := dedupedLeads[start:end]

		// 取消后不再提交新块，已完成的块各自独立、保持一致
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()

			if ctx.Err() != nil {
				return
			}

			res := l.db.WithContext(ctx).
				Clauses(clause.OnConflict{DoNothing: true}).
				Create(&chunk)

			mu.Lock()
			defer mu.Unlock()
			if res.Error != nil {
				if firstErr == nil {
					firstErr = res.Error
				}
				return
			}
			inserted += int(res.RowsAffected)
		})
		if submitErr != nil {
			wg.Done()
			logger.Error("Failed to submit ingest chunk to pool: %v", submitErr)
			mu.Lock()
			if firstErr == nil {
				firstErr = submitErr
			}
			mu.Unlock()
			break
		}
	}

	wg.Wait()

	if firstErr != nil {
		return nil, fmt.Errorf("批量导入线索失败: %w", firstErr)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result.Inserted = inserted
	result.Duplicates = result.Total - inserted

	logger.Info("Lead ingest completed for workspace %s: %d of %d already existed",
		workspaceID, result.Duplicates, result.Total)

	return result, nil
}

// InsertLeadIfAbsent 单条冲突插入：指纹已存在时不落库，返回是否实际插入。
// 依赖插入时的唯一索引而不是先查后插，并发批次同时判定同一指纹为新时只有一方成功。
func (l *LeadLogic) InsertLeadIfAbsent(lead *model.Lead) (bool, error) {
	if lead.Fingerprint == "" {
		lead.Fingerprint = identity.HashKey(lead.Email, lead.CompanyDomain, lead.Phone)
	}

	res := l.db.Clauses(clause.OnConflict{DoNothing: true}).Create(lead)
	if res.Error != nil {
		return false, fmt.Errorf("插入线索失败: %w", res.Error)
	}

	return res.RowsAffected == 1, nil
}

// GetWorkspaceLeads 分页获取工作区线索
func (l *LeadLogic) GetWorkspaceLeads(workspaceID string, page, pageSize int) ([]model.Lead, int64, error) {
	var leads []model.Lead
	var total int64

	if err := l.db.Model(&model.Lead{}).Where("workspace_id = ?", workspaceID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("获取线索总数失败: %w", err)
	}

	offset := (page - 1) * pageSize
	if err := l.db.Where("workspace_id = ?", workspaceID).
		Offset(offset).
		Limit(pageSize).
		Order("created_at DESC").
		Find(&leads).Error; err != nil {
		return nil, 0, fmt.Errorf("获取线索列表失败: %w", err)
	}

	return leads, total, nil
}

// loadKnownFingerprints 分块查询工作区内已存在的指纹
func (l *LeadLogic) loadKnownFingerprints(ctx context.Context, workspaceID string, fingerprints []string) (map[string]struct{}, error) {
	known := make(map[string]struct{}, len(fingerprints))

	for start := 0; start < len(fingerprints); start += fingerprintQueryChunk {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := start + fingerprintQueryChunk
		if end > len(fingerprints) {
			end = len(fingerprints)
		}

		var existing []string
		err := l.db.WithContext(ctx).Model(&model.Lead{}).
			Where("workspace_id = ? AND fingerprint IN ?", workspaceID, fingerprints[start:end]).
			Pluck("fingerprint", &existing).Error
		if err != nil {
			return nil, fmt.Errorf("查询已有指纹失败: %w", err)
		}

		for _, fp := range existing {
			known[fp] = struct{}{}
		}
	}

	return known, nil
}
