package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/ivlev/rect2query/internal/config"
	"github.com/ivlev/rect2query/internal/engine"
	"github.com/ivlev/rect2query/internal/output"
	"github.com/ivlev/rect2query/internal/source"
	"github.com/ivlev/rect2query/internal/system"
)

var buildVersion = "dev"

func main() {
	def := config.Default()

	configPtr := flag.String("config", "", "YAML-файл настроек (флаги имеют приоритет)")
	inputPtr := flag.String("input", "", "Изображение, папка с кадрами, список кадров (.txt) или PDF (по умолчанию: самый свежий файл в input/)")
	framesDirPtr := flag.String("frames-dir", "", "Папка с кадрами для списка .txt (по умолчанию: frames/ рядом со списком)")
	outputPtr := flag.String("output", "", "Файл с запросами (если пусто, генерируется автоматически в output/, \"-\" для stdout)")
	reportPtr := flag.String("report", "", "YAML-отчет с прямоугольниками по кадрам")
	widthPtr := flag.Int("width", def.Width, "Ширина растра (0 - исходная)")
	heightPtr := flag.Int("height", def.Height, "Высота растра (0 - исходная)")
	thresholdPtr := flag.Int("threshold", def.Threshold, "Порог яркости: пиксели темнее считаются передним планом")
	dpiPtr := flag.Int("dpi", def.DPI, "DPI для страниц PDF")
	workersPtr := flag.Int("workers", runtime.NumCPU(), "Потоки")
	strategyPtr := flag.String("strategy", def.Strategy, "Стратегия: auto, horizontal, vertical, runlength")
	qrPtr := flag.Bool("qr", false, "Кодировать строки входного файла в QR-коды")
	compressPtr := flag.Bool("compress", false, "Сжимать результат zstd")
	previewPtr := flag.Bool("preview", false, "Вывести текстовый превью растров вместо запросов")
	verifyPtr := flag.Bool("verify", false, "Проверять, что каждый запрос точно покрывает кадр")
	statsPtr := flag.Bool("stats", false, "Показать отчет о производительности")

	flag.Parse()

	cfg := def
	if *configPtr != "" {
		loaded, err := config.Load(*configPtr)
		if err != nil {
			log.Fatalf("[-] Ошибка чтения настроек: %v", err)
		}
		cfg = loaded
	}

	// Явно заданные флаги перекрывают файл настроек
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.InputPath = *inputPtr
		case "frames-dir":
			cfg.FramesDir = *framesDirPtr
		case "output":
			cfg.OutputPath = *outputPtr
		case "report":
			cfg.ReportPath = *reportPtr
		case "width":
			cfg.Width = *widthPtr
		case "height":
			cfg.Height = *heightPtr
		case "threshold":
			cfg.Threshold = *thresholdPtr
		case "dpi":
			cfg.DPI = *dpiPtr
		case "workers":
			cfg.Workers = *workersPtr
		case "strategy":
			cfg.Strategy = *strategyPtr
		case "qr":
			cfg.QR = *qrPtr
		case "compress":
			cfg.Compress = *compressPtr
		case "preview":
			cfg.Preview = *previewPtr
		case "verify":
			cfg.Verify = *verifyPtr
		case "stats":
			cfg.ShowStats = *statsPtr
		}
	})
	cfg.BuildVersion = buildVersion

	if err := cfg.Validate(); err != nil {
		log.Fatalf("[-] Ошибка настроек: %v", err)
	}

	// При выводе запросов в stdout служебные сообщения уходят в stderr
	var status io.Writer = os.Stdout
	if cfg.OutputPath == "-" {
		status = os.Stderr
	}

	// Увеличиваем лимиты системы (для macOS/Linux)
	system.InitResourceLimits(status)

	if cfg.InputPath == "" {
		os.MkdirAll("input", 0755)
		latest, err := system.FindLatest("input", system.InputExtensions)
		if err != nil {
			log.Fatalf("[-] Ошибка: %v. Положите кадры в input/", err)
		}
		cfg.InputPath = latest
		fmt.Fprintf(status, "[*] Выбран файл: %s\n", cfg.InputPath)
	}

	src, err := source.Open(cfg.InputPath, source.Options{
		DPI:       cfg.DPI,
		FramesDir: cfg.FramesDir,
		QR:        cfg.QR,
	})
	if err != nil {
		log.Fatalf("[-] Ошибка инициализации источника: %v", err)
	}
	defer src.Close()

	if src.FrameCount() == 0 {
		log.Fatalf("[-] Ошибка: в источнике нет кадров")
	}

	if cfg.OutputPath == "" {
		baseName := filepath.Base(cfg.InputPath)
		nameOnly := strings.TrimSuffix(baseName, filepath.Ext(baseName))
		cleanName := strings.ReplaceAll(nameOnly, " ", "_")
		timestamp := time.Now().Format("2006-01-02_15-04-05")
		os.MkdirAll("output", 0755)
		cfg.OutputPath = filepath.Join("output", fmt.Sprintf("%s_%s.txt", cleanName, timestamp))
		if cfg.Compress {
			cfg.OutputPath += output.Ext
		}
	}

	var out io.WriteCloser
	if cfg.OutputPath == "-" {
		out = nopCloser{os.Stdout}
	} else {
		out, err = output.Create(cfg.OutputPath, cfg.Compress)
		if err != nil {
			log.Fatalf("[-] Ошибка создания файла результата: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	project := engine.NewProject(cfg, src, out)
	project.Status = status
	runErr := project.Run(ctx)
	if err := out.Close(); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		log.Fatalf("[-] Ошибка проекта: %v", runErr)
	}

	rects, bytes := project.Totals()
	fmt.Fprintf(status, "[+++] Успех! Прямоугольников: %d, байт запросов: %d. Результат: %s\n", rects, bytes, cfg.OutputPath)
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
