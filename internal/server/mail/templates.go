package mail

import "fmt"

// Subjects for the two messages the server sends.
const (
	OtpSubject     = "VaultKeeper - Password Reset OTP"
	WelcomeSubject = "Welcome to VaultKeeper - Your Digital Vault Awaits!"
)

// OtpBody renders the password-reset message carrying the one-time code.
// The code appears only here, never in a response or a log line.
func OtpBody(code, frontendURL string) string {
	return fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; background-color: #0f172a; padding: 30px; color: #f8fafc;">
  <div style="max-width: 600px; margin: auto; background: #1e293b; padding: 25px; border-radius: 12px;">
    <h1 style="color: #ffffff; text-align: center; font-size: 26px;">VaultKeeper Password Reset</h1>
    <p style="color: #e0e7ff; text-align: center; font-size: 15px;">
      You recently requested to reset your VaultKeeper password.<br>
      Use the OTP below to complete the process:
    </p>
    <div style="background: #ffffff; color: #111827; font-size: 22px; font-weight: bold; letter-spacing: 4px; text-align: center; padding: 12px 0; margin: 20px auto; border-radius: 8px; width: 180px;">
      %s
    </div>
    <p style="color: #e0e7ff; text-align: center; font-size: 14px;">
      This OTP will expire in <b>5 minutes</b>.<br>
      If you didn't request a password reset, please ignore this email.
    </p>
    <div style="text-align: center; margin-top: 20px;">
      <a href="%s/reset-password" style="display: inline-block; background: #22d3ee; color: #0f172a; padding: 12px 25px; border-radius: 8px; text-decoration: none; font-weight: bold;">
        Reset Password
      </a>
    </div>
  </div>
</div>`, code, frontendURL)
}

// WelcomeBody renders the post-registration greeting.
func WelcomeBody(name, frontendURL string) string {
	return fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; background-color: #0f172a; padding: 20px; color: #f8fafc;">
  <div style="max-width: 600px; margin: auto; background: #1e293b; padding: 30px; border-radius: 12px; text-align: center;">
    <h1 style="color: #fff; font-size: 28px;">Welcome to VaultKeeper!</h1>
    <p style="color: #e0e7ff; font-size: 16px;">Hey <strong>%s</strong>,</p>
    <p style="color: #e0e7ff; font-size: 16px;">
      Your account is now ready. Store your passwords securely and keep your digital life safe.
    </p>
    <a href="%s" style="display: inline-block; background: #22d3ee; color: #0f172a; padding: 12px 24px; border-radius: 8px; text-decoration: none; font-weight: bold; margin-top: 20px;">
      Go to VaultKeeper
    </a>
  </div>
</div>`, name, frontendURL)
}
