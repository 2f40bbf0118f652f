package main

import (
	"context"
	"log/slog"
	"os"

	"reserva-api/internal/pkg/config"

	"ariga.io/atlas-go-sdk/atlasexec"
)

// migrations/ 配下のSQLをatlas CLI経由で適用する。
// CIとローカル環境の両方で `go run ./cmd/migrate` として使う。
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("設定の読み込みに失敗しました", "error", err)
		os.Exit(1)
	}

	workdir, err := os.Getwd()
	if err != nil {
		logger.Error("作業ディレクトリの取得に失敗しました", "error", err)
		os.Exit(1)
	}

	client, err := atlasexec.NewClient(workdir, "atlas")
	if err != nil {
		logger.Error("atlasクライアントの初期化に失敗しました", "error", err)
		os.Exit(1)
	}

	res, err := client.MigrateApply(context.Background(), &atlasexec.MigrateApplyParams{
		URL:    cfg.DB.BuildDSN(),
		DirURL: "file://migrations",
	})
	if err != nil {
		logger.Error("マイグレーションの適用に失敗しました", "error", err)
		os.Exit(1)
	}

	logger.Info("マイグレーションを適用しました",
		"applied", len(res.Applied),
		"current", res.Current,
		"target", res.Target,
	)
}
