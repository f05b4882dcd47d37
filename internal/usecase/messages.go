package usecase

import (
	"fmt"
	"strings"
	"time"

	"go-healthbot/internal/domain/entity"

	"github.com/shopspring/decimal"
)

const (
	dateFormat     = "2006-01-02"
	clockFormat    = "03:04 PM"
	longDateFormat = "02 Jan 2006"
	dateTimeFormat = "02 Jan 2006 03:04 PM"
)

var greetings = []string{
	"🌸 Welcome to HealthBot! 🌸\n“Good health is the greatest wealth.” 💙",
	"👋 Hello! This is your Medical Assistant.\n“An early checkup is better than a late cure.” 🩺",
	"🌟 Hi! I’m HealthBot.\n“Take care of your body, it’s the only place you have to live.” 💪",
	"💚 Welcome to your health companion!\n“Prevention is better than cure.” 🌿",
}

const menuText = "How can I assist you? I can help you with the following:\n" +
	" - Type 'appointment' to book a new appointment\n" +
	" - Type 'reschedule' to reschedule an existing appointment\n" +
	" - Type 'cancel' to cancel an appointment\n" +
	" - Type 'emergency' for urgent help\n" +
	" - Type 'help' to see this message again\n" +
	" - Type 'restart' to start over"

const emergencyText = "This seems like a medical emergency. " +
	"Please call your local emergency number 108/112 " +
	"or go to the nearest hospital immediately."

const sessionErrorReply = "⚠️ Something went wrong. Please type 'restart' to start again."

const helpText = `
👋 Welcome to the Healthcare Assistant Chatbot!
Here’s how I can help you today 💬

🩺 Describe Your Symptoms
Example: “I have a headache and fever.”
→ I’ll suggest basic precautions and helpful advice.

📅 Book an Appointment
Type “book appointment” to start the process.
I’ll guide you step by step to collect your:
1️⃣ Full Name
2️⃣ Email ID
3️⃣ Mobile Number
4️⃣ Speciality
5️⃣ Doctor (based on speciality)
6️⃣ Appointment Date (📆 YYYY-MM-DD)
7️⃣ Preferred Shift (🌅 Morning / 🌇 Evening)
8️⃣ Time Slot ⏰
✅ Once done, I’ll confirm your appointment and send an 📧 email confirmation.

🔁 Reschedule an Appointment
Type “reschedule appointment” to begin.
→ Find it by mobile number or serial number, review details, and confirm updates.
→ You can modify the date, shift, and time slot easily.

❌ Cancel an Appointment
Type “cancel appointment” to proceed.
→ Find it by mobile number or serial number, review details, and confirm cancellation.

💬 Get General Advice
Ask simple health queries like:
🩹 “What should I do for cold and cough?”
🥱 “I feel weak and tired.”
→ I’ll provide concise, helpful advice.

💡 Type “help” anytime to see this guide again.
🔄 Type “restart” to restart the current process.
⚠️ Note: I’m not a replacement for a real doctor. For emergencies, please visit your nearest 🏥 hospital immediately.
`

// emailFooter closes every confirmation email
const emailFooter = `
Please arrive 10-15 minutes early to ensure a smooth check-in process.
If you need to make any changes, you can easily reschedule or cancel your appointment by replying to this email or through our chatbot.

💚 Your health and well-being are our top priority. We look forward to assisting you and ensuring you get the best care possible.

Wishing you good health and a speedy recovery! 🌼

Warm regards,
Healthcare Assistant Team`

const (
	emailQueuedText = "📧 A confirmation email will be sent shortly. Kindly check in spam folder too."
	emailFailedText = "❌ Failed to send confirmation email. Please check your email address or contact support."
)

func emailStatus(err error) string {
	if err != nil {
		return emailFailedText
	}
	return emailQueuedText
}

func formatFee(fee decimal.Decimal) string {
	return "₹" + fee.String()
}

func numberedList(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = fmt.Sprintf("%d. %s", i+1, item)
	}
	return strings.Join(lines, "\n")
}

func doctorName(a *entity.Appointment, fallback string) string {
	if a.HasDoctor() {
		return a.Doctor.Name
	}
	return fallback
}

func formatDate(t time.Time) string {
	return t.Format(dateFormat)
}
