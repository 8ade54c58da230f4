package main

import (
	"strings"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	registry "github.com/KeithOmondi/principle-registry"
	"github.com/KeithOmondi/principle-registry/pkg/cli"
	"github.com/KeithOmondi/principle-registry/pkg/logutils"
	"github.com/KeithOmondi/principle-registry/pkg/mailer"
	"github.com/KeithOmondi/principle-registry/pkg/reminder"
	"github.com/KeithOmondi/principle-registry/pkg/storage"
	"github.com/KeithOmondi/principle-registry/pkg/storage/b2"
	"github.com/KeithOmondi/principle-registry/pkg/storage/model"
	"github.com/KeithOmondi/principle-registry/pkg/store"
)

var args struct {
	B2AccountId      string        `arg:"--b2-account-id,env:B2_ACCOUNT" help:"Account for B2 storage - when using the b2 storage"`
	B2AccountKey     string        `arg:"--b2-account-key,env:B2_KEY" help:"Key for B2 storage - when using the b2 storage"`
	B2BucketName     string        `arg:"--b2-bucket-name,env:B2_BUCKET_NAME" help:"Bucket Name for B2 storage - when using the b2 storage"`
	B2Passphrase     string        `arg:"env:B2_PASSPHRASE" help:"Passphrase for B2 storage (optional) - when using the b2 storage"`
	DatabaseDsn      string        `arg:"--database-dsn,required,env:DATABASE_DSN" help:"Postgres DSN for the registry database"`
	FsPath           string        `arg:"--fs-path,env:FS_PATH" help:"Path to the directory where to archive gazettes - when using the fs storage"`
	JwtSecret        string        `arg:"--jwt-secret,required,env:JWT_SECRET"`
	ListenAddr       string        `arg:"-L,--listen-addr" default:"127.0.0.1:8085"`
	LogLevel         string        `arg:"--log-level,env:LOG_LEVEL" default:"info"`
	PdfTimeout       time.Duration `arg:"--pdf-timeout,env:PDF_TIMEOUT" default:"30s" help:"Time budget for decoding one gazette PDF"`
	ReminderSchedule string        `arg:"--reminder-schedule,env:REMINDER_SCHEDULE" default:"0 8 * * 1" help:"Cron schedule for pending-publication reminders"`
	SmtpAddr         string        `arg:"--smtp-addr,env:SMTP_ADDR" help:"host:port of the outbound mail server; reminders are disabled when empty"`
	SmtpFrom         string        `arg:"--smtp-from,env:SMTP_FROM"`
	SmtpPassword     string        `arg:"--smtp-password,env:SMTP_PASSWORD"`
	SmtpUsername     string        `arg:"--smtp-username,env:SMTP_USERNAME"`
	StorageType      string        `arg:"--storage-type,env:STORAGE_TYPE,required" help:"Type of storage to use"`
}

var log = logrus.StandardLogger()

func main() {
	arg.MustParse(&args)
	if err := cli.FillKeychainValues(&args); err != nil {
		log.Fatalf("fill keychain values: %v", err)
	}
	logutils.SetLoggerLevel(args.LogLevel)

	db, err := store.Open(args.DatabaseDsn)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}

	notifier := getNotifier()
	s, err := registry.New(db, registry.Config{
		Storage:    getStorage(),
		Notifier:   notifier,
		JwtSecret:  args.JwtSecret,
		PdfTimeout: args.PdfTimeout,
	})
	if err != nil {
		log.Fatalf("create server: %v", err)
	}

	c := cron.New()
	job := reminder.New(store.NewCourts(db), store.NewRecords(db), notifier)
	if err := job.Schedule(c, args.ReminderSchedule); err != nil {
		log.Fatalf("schedule reminder: %v", err)
	}
	c.Start()

	if err := s.Run(args.ListenAddr); err != nil {
		log.Fatalf("listen: %v", err)
	}
}

func getNotifier() mailer.Notifier {
	if args.SmtpAddr == "" {
		log.Warnf("SMTP not configured, court notifications are disabled")
		return mailer.Discard{}
	}
	return mailer.New(mailer.Config{
		Addr:     args.SmtpAddr,
		From:     args.SmtpFrom,
		Username: args.SmtpUsername,
		Password: args.SmtpPassword,
	})
}

func getStorage() model.RWStorage {
	switch strings.ToLower(args.StorageType) {
	case "b2":
		return storage.SetupB2Storage(b2.Config{
			Account:    args.B2AccountId,
			BucketName: args.B2BucketName,
			Key:        args.B2AccountKey,
			Passphrase: args.B2Passphrase,
		})
	case "fs":
		return storage.SetupFsStorage(args.FsPath)
	}

	log.Fatalf("unknown storage type: %s", args.StorageType)
	return nil
}
