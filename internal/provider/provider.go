package provider

import (
	"context"

	"github.com/shotstamp/shotstamp/internal/domain"
)

// Provider 把“外部元数据工具的差异”限制在各实现内部；核心流程只依赖统一接口。
//
// 约束：
// - Metadata 必须一次批量调用完成；返回记录与 paths 按位置一一对应且数量一致
// - 单个文件缺字段不是错误（返回只含 SourceFile 的记录即可）
// - 实现不做重试：失败直接向上传播，整个 run 以 fail-fast 终止
type Provider interface {
	Name() string
	Metadata(ctx context.Context, paths []string) ([]domain.Record, error)
}
