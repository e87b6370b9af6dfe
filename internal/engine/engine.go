package engine

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/rect2query/internal/config"
	"github.com/ivlev/rect2query/internal/decompose"
	"github.com/ivlev/rect2query/internal/output"
	"github.com/ivlev/rect2query/internal/pattern"
	"github.com/ivlev/rect2query/internal/raster"
	"github.com/ivlev/rect2query/internal/report"
	"github.com/ivlev/rect2query/internal/selector"
	"github.com/ivlev/rect2query/internal/source"
	"github.com/ivlev/rect2query/internal/system"
)

// progressEvery controls how often a progress line is printed.
const progressEvery = 100

type Project struct {
	Config *config.Config
	Source source.Source
	Out    io.Writer
	// Status receives the banner, progress and performance report. It must
	// not share a stream with Out when queries are piped.
	Status  io.Writer
	Results []*FrameResult
}

type FrameResult struct {
	Index   int
	Name    string
	Width   int
	Height  int
	Cells   int
	Result  *selector.Result
	Preview string
}

func NewProject(cfg *config.Config, src source.Source, out io.Writer) *Project {
	return &Project{
		Config: cfg,
		Source: src,
		Out:    out,
		Status: os.Stdout,
	}
}

func (p *Project) Run(ctx context.Context) error {
	startTime := time.Now()

	strategy, err := selector.ParseStrategy(p.Config.Strategy)
	if err != nil {
		return err
	}

	frameCount := p.Source.FrameCount()
	if frameCount == 0 {
		return fmt.Errorf("источник не содержит кадров")
	}

	fmt.Fprintln(p.Status, "--- [PROJECT: RECT2QUERY] ---")
	fmt.Fprintf(p.Status, "[*] Источник: %s | Кадров: %d\n", p.Config.InputPath, frameCount)
	fmt.Fprintf(p.Status, "[*] Растр: %dx%d | Порог: %d | Стратегия: %v\n", p.Config.Width, p.Config.Height, p.Config.Threshold, strategy)
	fmt.Fprintln(p.Status, "-----------------------------")

	p.Results = make([]*FrameResult, frameCount)
	var done, failed atomic.Int64

	numWorkers := p.Config.Workers
	if numWorkers > frameCount {
		numWorkers = frameCount
	}
	if numWorkers < 1 {
		numWorkers = 1
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(numWorkers)

	decomposeStart := time.Now()
	for i := 0; i < frameCount; i++ {
		i := i
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}

			res, err := p.processFrame(egCtx, i, strategy)
			if err != nil {
				if ctxErr := egCtx.Err(); ctxErr != nil {
					return ctxErr
				}
				log.Printf("[!] Ошибка кадра %d (%s): %v", i, p.Source.FrameName(i), err)
				failed.Add(1)
				return nil
			}
			p.Results[i] = res

			if n := done.Add(1); n%progressEvery == 0 || n == int64(frameCount) {
				fmt.Fprintf(p.Status, "[>] Ready: %d/%d\n", n, frameCount)
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return err
	}
	decomposeTime := time.Since(decomposeStart)

	// Пропуск кадра испортит соответствие строк кадрам
	for i, r := range p.Results {
		if r == nil {
			return fmt.Errorf("кадр %d не был обработан (ошибок: %d). Проверьте логи", i, failed.Load())
		}
	}

	writeStart := time.Now()
	if err := p.writeOutput(); err != nil {
		return fmt.Errorf("ошибка записи результата: %w", err)
	}

	if p.Config.ReportPath != "" {
		if err := report.Write(p.buildReport(), p.Config.ReportPath); err != nil {
			return fmt.Errorf("ошибка записи отчета: %w", err)
		}
		fmt.Fprintf(p.Status, "[*] Отчет сохранен: %s\n", p.Config.ReportPath)
	}
	writeTime := time.Since(writeStart)

	if p.Config.ShowStats {
		p.printStats(frameCount, time.Since(startTime), decomposeTime, writeTime)
	}

	return nil
}

func (p *Project) processFrame(ctx context.Context, i int, strategy selector.Strategy) (*FrameResult, error) {
	g, err := p.loadGrid(i)
	if err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("некорректный растр: %w", err)
	}

	fr := &FrameResult{
		Index:  i,
		Name:   p.Source.FrameName(i),
		Width:  g.Width(),
		Height: g.Height(),
		Cells:  g.Count(),
	}

	if p.Config.Preview {
		fr.Preview = raster.Preview(g)
		return fr, nil
	}

	res, err := selector.Run(ctx, g, strategy)
	if err != nil {
		return nil, err
	}
	fr.Result = res

	if p.Config.Verify {
		rects, err := pattern.Decode(res.Query)
		if err != nil {
			return nil, fmt.Errorf("verify: %w", err)
		}
		if err := decompose.Verify(g, rects); err != nil {
			return nil, fmt.Errorf("verify: %w", err)
		}
	}

	return fr, nil
}

func (p *Project) loadGrid(i int) (decompose.Grid, error) {
	if gs, ok := p.Source.(source.GridSource); ok {
		return gs.RenderGrid(i)
	}

	img, err := p.Source.RenderFrame(i)
	if err != nil {
		return nil, err
	}
	return raster.Binarize(img, p.Config.Width, p.Config.Height, p.Config.Threshold), nil
}

func (p *Project) writeOutput() error {
	if p.Config.Preview {
		for _, r := range p.Results {
			if _, err := fmt.Fprintf(p.Out, "%s\n%s\n\n", r.Name, r.Preview); err != nil {
				return err
			}
		}
		return nil
	}

	queries := make([]string, len(p.Results))
	for i, r := range p.Results {
		queries[i] = r.Result.Query
	}

	// Пустые кадры не дают строк
	n, err := output.WriteQueries(p.Out, queries)
	if err != nil {
		return err
	}
	if skipped := len(queries) - n; skipped > 0 {
		fmt.Fprintf(p.Status, "[*] Пустых кадров пропущено: %d\n", skipped)
	}
	return nil
}

func (p *Project) buildReport() *report.Report {
	rep := &report.Report{
		Version: "1.0",
		Input:   p.Config.InputPath,
		Frames:  make([]report.Frame, 0, len(p.Results)),
	}

	for _, r := range p.Results {
		f := report.Frame{
			Index:  r.Index,
			Name:   r.Name,
			Width:  r.Width,
			Height: r.Height,
			Cells:  r.Cells,
		}
		if r.Result != nil {
			f.Strategy = r.Result.Strategy.String()
			f.Length = len(r.Result.Query)
			f.Rects = r.Result.Rects
			f.Lengths = make(map[string]int, len(r.Result.Lengths))
			for s, n := range r.Result.Lengths {
				f.Lengths[s.String()] = n
			}
		}
		rep.Frames = append(rep.Frames, f)
	}

	return rep
}

// Totals returns the number of rectangles and query bytes produced.
func (p *Project) Totals() (rects, bytes int) {
	for _, r := range p.Results {
		if r == nil || r.Result == nil {
			continue
		}
		rects += len(r.Result.Rects)
		bytes += len(r.Result.Query)
	}
	return rects, bytes
}

func (p *Project) printStats(frameCount int, totalTime, decomposeTime, writeTime time.Duration) {
	fps := float64(frameCount) / totalTime.Seconds()
	rects, bytes := p.Totals()

	host := "n/a"
	if hs, err := system.GetHostStats(); err == nil {
		host = hs.String()
	} else {
		log.Printf("[!] Не удалось получить статистику системы: %v", err)
	}

	summary := fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Host: %s\n"+
			"Total Time: %.2fs\n"+
			"Decomposition: %.2fs\n"+
			"Output: %.2fs\n"+
			"Rectangles: %d | Query bytes: %d\n"+
			"Effective FPS: %.2f\n"+
			"----------------------------\n",
		p.Config.BuildVersion, host, totalTime.Seconds(), decomposeTime.Seconds(), writeTime.Seconds(), rects, bytes, fps,
	)
	fmt.Fprint(p.Status, summary)

	if p.Config.BenchmarkLog == "" {
		return
	}

	logEntry := fmt.Sprintf("[%s] Build: %s | Input: %s | Frames: %d | Total: %.2fs | Decompose: %.2fs | Rects: %d | Bytes: %d | FPS: %.2f\n",
		time.Now().Format("2006-01-02 15:04:05"),
		p.Config.BuildVersion,
		filepath.Base(p.Config.InputPath),
		frameCount,
		totalTime.Seconds(),
		decomposeTime.Seconds(),
		rects,
		bytes,
		fps,
	)

	if err := appendLine(p.Config.BenchmarkLog, logEntry); err != nil {
		log.Printf("[!] Не удалось записать %s: %v", p.Config.BenchmarkLog, err)
	}
}

func appendLine(path, line string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
