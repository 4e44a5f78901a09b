package authlane

import (
	"fmt"

	"github.com/authlane/authlane/mailer"
)

// Notification kinds, used by transports to select templates.
const (
	mailKindAccountLocked   = "account-locked"
	mailKindSuspiciousLogin = "suspicious-login"
	mailKindNewLogin        = "new-login"
	mailKindAccountFrozen   = "account-frozen"
)

func lockedAccountMail(user *UserRecord, domain string) mailer.Message {
	return mailer.Message{
		To:      user.Email,
		Kind:    mailKindAccountLocked,
		Subject: "Account locked after repeated failed logins",
		Body: fmt.Sprintf(
			"Your account was locked after too many failed login attempts. "+
				"It will unlock on the next successful login. Domain: %s",
			domain,
		),
		Metadata: map[string]string{
			"user_id": user.UserID,
			"domain":  domain,
		},
	}
}

func suspiciousLoginMail(user *UserRecord, payload *ConfirmationPayload) mailer.Message {
	return mailer.Message{
		To:      user.Email,
		Kind:    mailKindSuspiciousLogin,
		Subject: "Suspicious login detected",
		Body: fmt.Sprintf(
			"A login from an unrecognized location was blocked.\n"+
				"IP: %s\nCountry: %s\nDevice: %s\n\n"+
				"If this was you, confirm the login with code %s. "+
				"If it was not, use the same code to freeze your account.",
			payload.IP, payload.Country, payload.Device, payload.VerificationCode,
		),
		Metadata: map[string]string{
			"user_id": user.UserID,
			"code":    payload.VerificationCode,
			"country": payload.Country,
		},
	}
}

func newLoginMail(user *UserRecord, ip, device, country, domain string) mailer.Message {
	return mailer.Message{
		To:      user.Email,
		Kind:    mailKindNewLogin,
		Subject: "New login to your account",
		Body: fmt.Sprintf(
			"A new login was recorded.\nIP: %s\nCountry: %s\nDevice: %s\nDomain: %s",
			ip, country, device, domain,
		),
		Metadata: map[string]string{
			"user_id": user.UserID,
			"country": country,
		},
	}
}

func accountFrozenMail(email, userID string) mailer.Message {
	return mailer.Message{
		To:      email,
		Kind:    mailKindAccountFrozen,
		Subject: "Your account has been frozen",
		Body: "Your account was frozen at your request after a reported " +
			"unauthorized login. Contact support to restore access.",
		Metadata: map[string]string{
			"user_id": userID,
		},
	}
}
