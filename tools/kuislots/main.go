package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/atiaxi/kuiper-sub000/internal/config"
	"github.com/atiaxi/kuiper-sub000/internal/domain"
	"github.com/atiaxi/kuiper-sub000/internal/infrastructure/storage"
	_ "github.com/atiaxi/kuiper-sub000/internal/kuiper"
	"github.com/atiaxi/kuiper-sub000/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		printHelp()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	if cfg.SaveDB == "" {
		fmt.Println("KUIPER_SAVE_DB is not set")
		os.Exit(1)
	}

	slots, err := storage.OpenSlotStore(cfg.SaveDB)
	if err != nil {
		fmt.Printf("Cannot open slots: %v\n", err)
		os.Exit(1)
	}
	defer slots.Close()

	ctx := context.Background()
	switch os.Args[1] {
	case "list":
		list, err := slots.List(ctx)
		if err != nil {
			fmt.Printf("List failed: %v\n", err)
			return
		}
		for _, s := range list {
			fmt.Printf("%-20s %s  format %s\n", s.Name, s.SavedAt.Local().Format(time.DateTime), s.Format)
		}
	case "delete":
		if len(os.Args) < 3 {
			fmt.Println("Usage: kuislots delete <slot>")
			return
		}
		if err := slots.Delete(ctx, os.Args[2]); err != nil {
			fmt.Printf("Delete failed: %v\n", err)
		}
	case "export":
		if len(os.Args) < 4 {
			fmt.Println("Usage: kuislots export <slot> <file.ksg>")
			return
		}
		reg := domain.NewRegistry(cfg.Rand())
		domain.SetActive(reg)
		if _, err := slots.Load(ctx, os.Args[2], reg); err != nil {
			fmt.Printf("Load failed: %v\n", err)
			return
		}
		if err := exportTo(cfg, os.Args[3], reg); err != nil {
			fmt.Printf("Export failed: %v\n", err)
		}
	case "import":
		if len(os.Args) < 4 {
			fmt.Println("Usage: kuislots import <file.kui|file.ksg> <slot>")
			return
		}
		reg := domain.NewRegistry(cfg.Rand())
		domain.SetActive(reg)
		files, err := storage.NewFileStore(cfg.SaveDir)
		if err != nil {
			fmt.Printf("Import failed: %v\n", err)
			return
		}
		if _, err := files.LoadFile(os.Args[2], reg); err != nil {
			fmt.Printf("Import failed: %v\n", err)
			return
		}
		if err := slots.Save(ctx, os.Args[3], reg); err != nil {
			fmt.Printf("Save failed: %v\n", err)
		}
	default:
		printHelp()
	}
}

func exportTo(cfg config.Config, path string, reg *domain.Registry) error {
	files, err := storage.NewFileStore(cfg.SaveDir)
	if err != nil {
		return err
	}
	return files.Export(path, reg)
}

func printHelp() {
	fmt.Println(`Kuislots - управление слотами сохранений (KUIPER_SAVE_DB)
Commands:
  list                        - слоты, новые первыми
  delete <slot>               - удалить слот
  export <slot> <file.ksg>    - выгрузить слот в файл
  import <file> <slot>        - загрузить сценарий или сохранение в слот`)
}
