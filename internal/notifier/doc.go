// Package notifier delivers finished exports.
//
// EmailNotifier mails the workbook as an attachment over SMTP and
// SMSNotifier posts a short heads-up to an HTTP SMS gateway.
// TelegramNotifier uploads the workbook to a Telegram chat through the Bot
// API. Multi chains them so the SMS only goes out once the email was
// accepted. DryRunNotifier prints what would be sent.
package notifier
