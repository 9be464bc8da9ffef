package cli

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bstardust/photo-geometa/internal/config"
	"github.com/bstardust/photo-geometa/internal/fshelper"
	"github.com/bstardust/photo-geometa/internal/logger"
	"github.com/bstardust/photo-geometa/internal/metadata"
	"github.com/bstardust/photo-geometa/internal/progress"
	"github.com/bstardust/photo-geometa/internal/report"
	"github.com/bstardust/photo-geometa/internal/worker"
	"github.com/bstardust/photo-geometa/pkg/common"
	"github.com/bstardust/photo-geometa/pkg/s3client"
)

func newInspectCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [flags] <image|folder|archive.zip|glob>...",
		Short: "Extract and reconcile photo metadata",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.Context(), cmd.OutOrStdout(), cfg, args)
		},
	}

	// Inspection options
	cmd.Flags().IntVar(&cfg.Inspect.Concurrency, "concurrency", cfg.Inspect.Concurrency, "Number of files inspected concurrently")
	cmd.Flags().BoolVar(&cfg.Inspect.JSON, "json", cfg.Inspect.JSON, "Print one JSON object per file")
	cmd.Flags().DurationVar(&cfg.Inspect.Timeout, "timeout", cfg.Inspect.Timeout, "Abort the inspection after this long (0 disables)")
	cmd.Flags().StringVar(&cfg.Timezone, "timezone", cfg.Timezone, "Timezone for formatted timestamps")
	cmd.Flags().BoolVar(&cfg.Sidecar.Enabled, "sidecars", cfg.Sidecar.Enabled, "Read XMP sidecars next to images")
	cmd.Flags().StringVar(&cfg.Sidecar.Style, "sidecar-style", cfg.Sidecar.Style, "Sidecar naming: appended (photo.jpg.xmp), replaced (photo.xmp) or both")

	// Report upload flags
	cmd.Flags().BoolVar(&cfg.Report.Upload, "upload", cfg.Report.Upload, "Upload a JSON report per file to S3")
	cmd.Flags().BoolVar(&cfg.Report.SkipExisting, "skip-existing", cfg.Report.SkipExisting, "Skip reports that already exist in the bucket")
	cmd.Flags().StringVar(&cfg.Report.Endpoint, "endpoint", cfg.Report.Endpoint, "S3 endpoint URL")
	cmd.Flags().StringVar(&cfg.Report.Region, "region", cfg.Report.Region, "S3 region")
	cmd.Flags().StringVar(&cfg.Report.Bucket, "bucket", cfg.Report.Bucket, "S3 bucket name")
	cmd.Flags().StringVar(&cfg.Report.AccessKey, "access-key", cfg.Report.AccessKey, "S3 access key")
	cmd.Flags().StringVar(&cfg.Report.SecretKey, "secret-key", cfg.Report.SecretKey, "S3 secret key")
	cmd.Flags().BoolVar(&cfg.Report.UseSSL, "use-ssl", cfg.Report.UseSSL, "Use SSL for S3 connection")
	cmd.Flags().StringVar(&cfg.Report.Prefix, "prefix", cfg.Report.Prefix, "Prefix for report object keys")

	return cmd
}

func runInspect(ctx context.Context, out io.Writer, cfg *config.Config, args []string) error {
	if cfg.Inspect.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Inspect.Timeout)
		defer cancel()
	}

	sources, err := fshelper.Discover(args)
	if err != nil {
		return common.NewInputError(strings.Join(args, " "), err.Error())
	}
	defer fshelper.CloseAll(sources)

	var uploader *report.Uploader
	if cfg.Report.Upload {
		client, err := s3client.New(ctx, s3client.Config{
			Endpoint:  cfg.Report.Endpoint,
			Region:    cfg.Report.Region,
			Bucket:    cfg.Report.Bucket,
			AccessKey: cfg.Report.AccessKey,
			SecretKey: cfg.Report.SecretKey,
			UseSSL:    cfg.Report.UseSSL,
			Prefix:    cfg.Report.Prefix,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		uploader = report.NewUploader(client, cfg.Report.SkipExisting)
	}

	summary, err := inspect(ctx, sources, cfg, report.NewPrinter(out, cfg.Inspect.JSON), uploader)
	if err != nil {
		return err
	}
	if summary.Errors > 0 {
		return fmt.Errorf("%d of %d files failed", summary.Errors, summary.Total)
	}
	return nil
}

// inspector carries the shared state of one inspection run
type inspector struct {
	extractor *metadata.Extractor
	printer   *report.Printer
	uploader  *report.Uploader
	progress  *progress.Reporter
}

func inspect(ctx context.Context, sources []fshelper.Source, cfg *config.Config, printer *report.Printer, uploader *report.Uploader) (progress.Summary, error) {
	in := &inspector{
		extractor: metadata.NewExtractor(cfg.Location(), cfg.SidecarStyle(), cfg.Sidecar.Enabled),
		printer:   printer,
		uploader:  uploader,
		progress:  progress.New(),
	}

	total := 0
	for _, src := range sources {
		total += len(src.Files)
	}
	in.progress.Start(total)

	// Initialize worker pool
	pool := worker.NewPool(cfg.Inspect.Concurrency)
	for _, src := range sources {
		for _, name := range src.Files {
			src, name := src, name
			if err := pool.SubmitContext(ctx, func() { in.inspectFile(ctx, src.FS, name) }); err != nil {
				pool.Wait()
				in.progress.Finish()
				return in.progress.Summary(), err
			}
		}
	}
	pool.Wait()

	return in.progress.Finish(), nil
}

func (in *inspector) inspectFile(ctx context.Context, fsys fshelper.NameFS, name string) {
	entry := report.Entry{Input: fsys.Name()}
	if info, err := fs.Stat(fsys, name); err == nil {
		entry.Size = info.Size()
	}

	m, err := in.extractor.ExtractFromFile(fsys, name)
	if err != nil {
		entry.Error = err.Error()
		entry.Metadata = &metadata.Metadata{Path: name}
		in.print(entry)
		in.progress.Error(name, err)
		return
	}
	entry.Metadata = m
	in.print(entry)

	if in.uploader != nil {
		written, err := in.uploader.Upload(ctx, entry)
		if err != nil {
			in.progress.Error(name, err)
			return
		}
		if !written {
			in.progress.Skip(name)
			return
		}
	}
	in.progress.Complete(name, entry.Size)
}

func (in *inspector) print(e report.Entry) {
	if err := in.printer.Print(e); err != nil {
		logger.Error("Failed to print %s: %v", e.Key(), err)
	}
}
