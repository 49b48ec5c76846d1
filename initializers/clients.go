package initializers

import (
	"context"

	"github.com/Kariqs/digistore-api/payments"
	"github.com/Kariqs/digistore-api/storage"
	"github.com/Kariqs/digistore-api/utils"
	"go.uber.org/zap"
)

var (
	Payments payments.Gateway
	Storage  storage.Uploader
	Identity *utils.IdentityClient
	Mailer   *utils.Mailer
)

func InitPayments() {
	gateway, err := payments.NewStripeGateway(payments.StripeConfig{
		SecretKey:     Cfg.StripeSecretKey,
		WebhookSecret: Cfg.StripeWebhookSecret,
	}, Logger)
	if err != nil {
		Logger.Fatal("Failed to configure Stripe", zap.Error(err))
	}
	Payments = gateway
}

// InitStorage leaves Storage nil when no bucket is configured; uploads then
// fail with a clear error instead of at startup.
func InitStorage() {
	if Cfg.S3Bucket == "" {
		Logger.Warn("S3_BUCKET is not set, product uploads are disabled")
		return
	}
	uploader, err := storage.NewS3Uploader(context.Background(), storage.S3Config{
		Bucket:        Cfg.S3Bucket,
		Region:        Cfg.S3Region,
		Endpoint:      Cfg.S3Endpoint,
		AccessKey:     Cfg.S3AccessKey,
		SecretKey:     Cfg.S3SecretKey,
		PublicBaseURL: Cfg.S3PublicBaseURL,
	})
	if err != nil {
		Logger.Fatal("Failed to configure object storage", zap.Error(err))
	}
	Storage = uploader
}

func InitIdentity() {
	if Cfg.IDPSecretKey == "" {
		Logger.Warn("IDP_SECRET_KEY is not set, tokens must carry an email claim")
		return
	}
	Identity = utils.NewIdentityClient(Cfg.IDPAPIURL, Cfg.IDPSecretKey)
}

func InitMailer() {
	Mailer = utils.NewMailer(utils.MailConfig{
		Address:  Cfg.SMTPAddress,
		Host:     Cfg.SMTPHost,
		From:     Cfg.FromEmail,
		Password: Cfg.FromEmailPassword,
		SiteURL:  Cfg.BaseURL,
	})
}
