package services

import (
	"github.com/twilio/twilio-go"
	verify "github.com/twilio/twilio-go/rest/verify/v2"

	"github.com/zipacres/zipacres-api/internal/config"
)

// OTPService starts and checks phone verifications. Codes are never
// stored locally; the verification state lives entirely at the vendor.
type OTPService interface {
	// Send delivers a one-time code to the phone number over SMS and
	// returns the vendor status (usually "pending").
	Send(phone string) (string, error)
	// Check submits a code for verification and reports approval.
	Check(phone, code string) (bool, error)
}

type twilioOTPService struct {
	client    *twilio.RestClient
	verifySID string
}

// NewTwilioOTPService creates an OTPService backed by Twilio Verify v2.
func NewTwilioOTPService(cfg *config.Config) OTPService {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.TwilioAccountSID,
		Password: cfg.TwilioAuthToken,
	})
	return &twilioOTPService{client: client, verifySID: cfg.TwilioVerifySID}
}

func (s *twilioOTPService) Send(phone string) (string, error) {
	params := &verify.CreateVerificationParams{}
	params.SetTo(phone)
	params.SetChannel("sms")

	verification, err := s.client.VerifyV2.CreateVerification(s.verifySID, params)
	if err != nil {
		return "", err
	}
	if verification.Status != nil {
		return *verification.Status, nil
	}
	return "", nil
}

func (s *twilioOTPService) Check(phone, code string) (bool, error) {
	params := &verify.CreateVerificationCheckParams{}
	params.SetTo(phone)
	params.SetCode(code)

	check, err := s.client.VerifyV2.CreateVerificationCheck(s.verifySID, params)
	if err != nil {
		return false, err
	}
	return check.Status != nil && *check.Status == "approved", nil
}
