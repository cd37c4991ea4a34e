// Copyright 2025 Xpect Portal Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package notify

var InvitationTemplate = MailTemplate{
	Name:    "invitation",
	Subject: "Xpect Group – Employee Onboarding Invitation",
	Text: `Xpect Group – Employee Onboarding Invitation

Welcome to Xpect Group, {{.EmployeeName}}!

You have been invited to join Xpect Group. Please complete your onboarding by following the link below:

Onboarding Link:
{{.OnboardingURL}}

Your OTP Code: {{.Otp}}

This OTP will expire in {{.OtpMinutes}} minutes.

Instructions:
1. Click the onboarding link above
2. Enter the OTP code when prompted
3. Complete the onboarding form

If you did not expect this invitation, please ignore this email.
This is an automated message from Xpect Group.
`,
	HTML: `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Xpect Group Onboarding Invitation</title></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="background-color: #f2f6f9; padding: 30px; border-radius: 10px;">
    <h2 style="color: #2e4150; margin-top: 0;">Welcome to Xpect Group, {{.EmployeeName}}!</h2>
    <p>You have been invited to join Xpect Group. Please complete your onboarding by following the link below:</p>
    <div style="background-color: #ffffff; padding: 20px; border-radius: 8px; margin: 20px 0; border-left: 4px solid #2e4150;">
      <p style="margin: 0 0 10px 0; font-weight: bold;">Onboarding Link:</p>
      <a href="{{.OnboardingURL}}" style="color: #135bec; word-break: break-all;">{{.OnboardingURL}}</a>
    </div>
    <div style="background-color: #fff3cd; padding: 20px; border-radius: 8px; margin: 20px 0; border-left: 4px solid #f59e0b;">
      <p style="margin: 0 0 10px 0; font-weight: bold;">Your OTP Code:</p>
      <p style="font-size: 24px; font-weight: bold; letter-spacing: 4px; font-family: monospace;">{{.Otp}}</p>
      <p style="font-size: 12px;">This OTP will expire in {{.OtpMinutes}} minutes.</p>
    </div>
    <p style="font-size: 14px; color: #666;"><strong>Instructions:</strong><br>
      1. Click the onboarding link above<br>
      2. Enter the OTP code when prompted<br>
      3. Complete the onboarding form</p>
    <p style="font-size: 12px; color: #999; border-top: 1px solid #e7ebf3; padding-top: 20px;">
      If you did not expect this invitation, please ignore this email.<br>
      This is an automated message from Xpect Group.</p>
  </div>
</body>
</html>
`,
}

var OtpResendTemplate = MailTemplate{
	Name:    "otp-resend",
	Subject: "Xpect Group – Your Onboarding OTP",
	Text: `Xpect Group – Your Onboarding OTP

Dear {{.EmployeeName}},

Your OTP has been resent. Please use the code below to verify your identity:

Your OTP Code: {{.Otp}}

This OTP will expire in {{.OtpMinutes}} minutes.

Onboarding Link:
{{.OnboardingURL}}

This is an automated message from Xpect Group.
`,
	HTML: `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="background-color: #f2f6f9; padding: 30px; border-radius: 10px;">
    <h2 style="color: #2e4150; margin-top: 0;">Your OTP Has Been Resent</h2>
    <p>Dear {{.EmployeeName}},</p>
    <p>Your OTP has been resent. Please use the code below to verify your identity:</p>
    <div style="background-color: #fff3cd; padding: 20px; border-radius: 8px; margin: 20px 0; border-left: 4px solid #f59e0b;">
      <p style="margin: 0 0 10px 0; font-weight: bold;">Your OTP Code:</p>
      <p style="font-size: 24px; font-weight: bold; letter-spacing: 4px; font-family: monospace;">{{.Otp}}</p>
      <p style="font-size: 12px;">This OTP will expire in {{.OtpMinutes}} minutes.</p>
    </div>
    <div style="background-color: #ffffff; padding: 20px; border-radius: 8px; margin: 20px 0; border-left: 4px solid #2e4150;">
      <p style="margin: 0 0 10px 0; font-weight: bold;">Onboarding Link:</p>
      <a href="{{.OnboardingURL}}" style="color: #135bec; word-break: break-all;">{{.OnboardingURL}}</a>
    </div>
    <p style="font-size: 12px; color: #999; border-top: 1px solid #e7ebf3; padding-top: 20px;">This is an automated message from Xpect Group.</p>
  </div>
</body>
</html>
`,
}
