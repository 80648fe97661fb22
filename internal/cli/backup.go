package cli

import (
	"context"
	"flag"
)

func (a *App) cmdBackup(ctx context.Context, _ int64, args []string) error {
	fs := flag.NewFlagSet("backup", flag.ContinueOnError)
	upload := fs.Bool("s3", false, "upload the files to the configured bucket")
	pos, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(pos) != 1 {
		return usageError("backup")
	}

	paths, err := a.backups.Export(ctx, pos[0])
	if err != nil {
		return err
	}
	for _, p := range paths {
		a.println("Wrote", p)
	}

	if !*upload {
		return nil
	}
	remote, err := a.remoteFn(ctx)
	if err != nil {
		return err
	}
	prefix, err := remote.Push(ctx, pos[0])
	if err != nil {
		return err
	}
	a.printf("Uploaded to s3://%s/%s\n", a.config.S3.Bucket, prefix)
	return nil
}

func (a *App) cmdRestore(ctx context.Context, _ int64, args []string) error {
	fs := flag.NewFlagSet("restore", flag.ContinueOnError)
	prefix := fs.String("s3", "", "download this backup prefix first")
	pos, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(pos) != 1 {
		return usageError("restore")
	}
	dir := pos[0]

	if *prefix != "" {
		remote, err := a.remoteFn(ctx)
		if err != nil {
			return err
		}
		paths, err := remote.Pull(ctx, *prefix, dir)
		if err != nil {
			return err
		}
		a.printf("Downloaded %d files from %s\n", len(paths), *prefix)
	}

	counts, err := a.backups.Restore(ctx, dir)
	if err != nil {
		return err
	}
	if len(counts) == 0 {
		a.println("Nothing to restore in", dir)
		return nil
	}
	for _, name := range []string{"users", "transactions", "budget"} {
		if n, ok := counts[name]; ok {
			a.printf("%s : %d rows\n", name, n)
		}
	}
	return nil
}
