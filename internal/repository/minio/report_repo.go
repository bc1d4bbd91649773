package minio

import (
	"bytes"
	"context"

	"github.com/ecomarket-tech/inventory-backend/internal/cfg"
	"github.com/ecomarket-tech/inventory-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
)

// ReportRepo хранит выгрузки инвентарных отчётов в MinIO.
type ReportRepo struct {
	mc  *minio.Client
	cfg *cfg.MinIOCfg
}

func NewReportRepo(mc *minio.Client, cfg *cfg.MinIOCfg) *ReportRepo {
	return &ReportRepo{
		mc:  mc,
		cfg: cfg,
	}
}

// Upload загружает отчёт в MinIO и возвращает ключ объекта.
func (r *ReportRepo) Upload(ctx context.Context, key string, data []byte) (string, error) {
	reader := bytes.NewReader(data)

	info, err := r.mc.PutObject(ctx, r.cfg.BucketName, key, reader, int64(len(data)), minio.PutObjectOptions{
		ContentType: "text/csv",
	})
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return info.Key, nil
}
