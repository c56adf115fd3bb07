package postgres

import "github.com/jackc/pgx/v5"

// ErrNoRows 查询无结果，屏蔽 pgx 类型
var ErrNoRows = pgx.ErrNoRows
