package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/horae/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatReminderMessage_Exam(t *testing.T) {
	r := &domain.Reminder{
		Type:    domain.ReminderExam,
		Title:   "Midterm",
		Date:    "2025-03-10",
		Time:    "14:00",
		Subject: "Biology",
	}
	msg := FormatReminderMessage(r)

	assert.Contains(t, msg, "📝")
	assert.Contains(t, msg, "Midterm")
	assert.Contains(t, msg, "Monday, March 10, 2025")
	assert.Contains(t, msg, "02:00 PM")
	assert.Contains(t, msg, "Subject: Biology")
	assert.NotContains(t, msg, "Location")
	assert.True(t, strings.HasSuffix(msg, "💪"))
}

func TestFormatReminderMessage_OptionalLines(t *testing.T) {
	r := &domain.Reminder{
		Type:        domain.ReminderClass,
		Title:       "Lab",
		Description: "Bring goggles",
		Date:        "bad-date",
		Time:        "09:30",
		Location:    "Room 101",
	}
	msg := FormatReminderMessage(r)

	assert.Contains(t, msg, "🎓 *Class Reminder*")
	assert.Contains(t, msg, "Bring goggles")
	assert.Contains(t, msg, "📅 bad-date")
	assert.Contains(t, msg, "09:30 AM")
	assert.Contains(t, msg, "Location: Room 101")
}

func TestDescribeTwilioError(t *testing.T) {
	assert.Contains(t, DescribeTwilioError(TwilioOutsideSessionWin, ""), "24 hours")
	assert.Contains(t, DescribeTwilioError(TwilioInvalidNumber, ""), "not a valid phone number")
	assert.Equal(t, "rate limited", DescribeTwilioError(20429, "rate limited"))
	assert.Equal(t, "delivery failed with gateway error 99999", DescribeTwilioError(99999, ""))
}

type recordingObserver struct {
	mu     sync.Mutex
	events []DeliveryEvent
}

func (o *recordingObserver) OnDelivery(e DeliveryEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func testTwilioConfig(baseURL string) TwilioConfig {
	return TwilioConfig{
		AccountSID: "AC123",
		AuthToken:  "secret",
		From:       "whatsapp:+14155238886",
		ContentSID: "HX999",
		BaseURL:    baseURL,
	}
}

func TestWhatsAppClient_SendFreeText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "AC123", user)
		assert.Equal(t, "secret", pass)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "whatsapp:+4915112345678", r.PostForm.Get("To"))
		assert.Equal(t, "whatsapp:+14155238886", r.PostForm.Get("From"))
		assert.Equal(t, "hello", r.PostForm.Get("Body"))
		assert.Empty(t, r.PostForm.Get("ContentSid"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(twilioMessage{SID: "SM1", Status: "queued"})
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	client := NewWhatsAppClient(testTwilioConfig(srv.URL), obs)
	receipt, err := client.Send(context.Background(), Message{To: "+49 151 1234 5678", Body: "hello", ForceText: true})

	require.NoError(t, err)
	assert.Equal(t, Receipt{Accepted: true, DeliveryID: "SM1"}, receipt)
	require.Len(t, obs.events, 1)
	assert.True(t, obs.events[0].Accepted)
	assert.Equal(t, "whatsapp", obs.events[0].Channel)
}

func TestWhatsAppClient_SendTemplate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "HX999", r.PostForm.Get("ContentSid"))
		assert.Empty(t, r.PostForm.Get("Body"))
		var vars map[string]string
		require.NoError(t, json.Unmarshal([]byte(r.PostForm.Get("ContentVariables")), &vars))
		assert.Equal(t, map[string]string{"1": "Midterm", "2": "body"}, vars)

		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"sid":"SM2","status":"queued"}`)
	}))
	defer srv.Close()

	client := NewWhatsAppClient(testTwilioConfig(srv.URL), nil)
	receipt, err := client.Send(context.Background(), Message{To: "+4915112345678", Body: "body", TitleHint: "Midterm"})
	require.NoError(t, err)
	assert.Equal(t, "SM2", receipt.DeliveryID)
}

func TestWhatsAppClient_GatewayRejectionIsReceipt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"code":63016,"message":"Failed to send freeform message","status":400}`)
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	client := NewWhatsAppClient(testTwilioConfig(srv.URL), obs)
	receipt, err := client.Send(context.Background(), Message{To: "+4915112345678", Body: "x", ForceText: true})

	require.NoError(t, err)
	assert.False(t, receipt.Accepted)
	assert.Equal(t, "63016", receipt.ErrorCode)
	assert.Equal(t, DescribeTwilioError(TwilioOutsideSessionWin, ""), receipt.Error)
	require.Len(t, obs.events, 1)
	assert.Equal(t, "63016", obs.events[0].ErrorCode)
}

func TestWhatsAppClient_NonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "upstream down")
	}))
	defer srv.Close()

	receipt, err := NewWhatsAppClient(testTwilioConfig(srv.URL), nil).
		Send(context.Background(), Message{To: "+4915112345678", Body: "x"})
	require.NoError(t, err)
	assert.Equal(t, "502", receipt.ErrorCode)
}

func TestWhatsAppClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	cfg := testTwilioConfig(srv.URL)
	cfg.Timeout = 50 * time.Millisecond
	_, err := NewWhatsAppClient(cfg, nil).Send(context.Background(), Message{To: "+4915112345678", Body: "x"})
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestWhatsAppClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewWhatsAppClient(testTwilioConfig(url), nil).Send(context.Background(), Message{To: "+4915112345678", Body: "x"})
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
}

func TestWhatsAppClient_DisabledAndBadAddress(t *testing.T) {
	_, err := NewWhatsAppClient(TwilioConfig{}, nil).Send(context.Background(), Message{To: "+4915112345678"})
	assert.ErrorIs(t, err, ErrChannelDisabled)

	_, err = NewWhatsAppClient(testTwilioConfig("http://unused"), nil).Send(context.Background(), Message{To: " "})
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func newTelegramServer(t *testing.T, sendHandler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/botTOKEN/getMe":
			fmt.Fprint(w, `{"ok":true,"result":{"id":7,"is_bot":true,"first_name":"Horae","username":"horae_bot"}}`)
		case "/botTOKEN/sendMessage":
			sendHandler(w, r)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestTelegramChannel_Send(t *testing.T) {
	srv := newTelegramServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "12345", r.Form.Get("chat_id"))
		assert.Equal(t, "study now", r.Form.Get("text"))
		fmt.Fprint(w, `{"ok":true,"result":{"message_id":42,"date":0,"chat":{"id":12345,"type":"private"},"text":"study now"}}`)
	})

	ch, err := NewTelegramChannel("TOKEN", srv.URL+"/bot%s/%s", srv.Client(), nil)
	require.NoError(t, err)
	assert.Equal(t, "horae_bot", ch.BotName())

	receipt, err := ch.Send(context.Background(), Message{To: "12345", Body: "study now"})
	require.NoError(t, err)
	assert.Equal(t, Receipt{Accepted: true, DeliveryID: "42"}, receipt)
}

func TestTelegramChannel_APIErrorIsReceipt(t *testing.T) {
	srv := newTelegramServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ok":false,"error_code":403,"description":"Forbidden: bot was blocked by the user"}`)
	})

	ch, err := NewTelegramChannel("TOKEN", srv.URL+"/bot%s/%s", srv.Client(), nil)
	require.NoError(t, err)

	receipt, err := ch.Send(context.Background(), Message{To: "12345", Body: "x"})
	require.NoError(t, err)
	assert.False(t, receipt.Accepted)
	assert.Equal(t, "403", receipt.ErrorCode)
	assert.Contains(t, receipt.Error, "blocked")
}

func TestTelegramChannel_InvalidChatAndToken(t *testing.T) {
	_, err := NewTelegramChannel("", "", nil, nil)
	assert.ErrorIs(t, err, ErrChannelDisabled)

	srv := newTelegramServer(t, func(w http.ResponseWriter, r *http.Request) {})
	ch, err := NewTelegramChannel("TOKEN", srv.URL+"/bot%s/%s", srv.Client(), nil)
	require.NoError(t, err)
	_, err = ch.Send(context.Background(), Message{To: "@someone", Body: "x"})
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

type stubChannel struct {
	mu    sync.Mutex
	sends int
}

func (s *stubChannel) Name() string { return "stub" }

func (s *stubChannel) Send(context.Context, Message) (Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sends++
	return Receipt{Accepted: true}, nil
}

func TestThrottle_WaitsForSlot(t *testing.T) {
	inner := &stubChannel{}
	ch := Throttle(inner, 1, 1)

	_, err := ch.Send(context.Background(), Message{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = ch.Send(ctx, Message{})
	require.Error(t, err, "second send within the window must wait past the deadline")
	assert.Equal(t, 1, inner.sends)
	assert.Equal(t, "stub", ch.Name())
}

func TestObservers_FanOut(t *testing.T) {
	a, b := &recordingObserver{}, &recordingObserver{}
	Observers{a, b}.OnDelivery(DeliveryEvent{Channel: "whatsapp"})
	assert.Len(t, a.events, 1)
	assert.Len(t, b.events, 1)
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "TIMEOUT", errorCode(ErrTimeout))
	assert.Equal(t, "UNAVAILABLE", errorCode(fmt.Errorf("%w: dial", ErrGatewayUnavailable)))
	assert.Equal(t, "UNKNOWN", errorCode(errors.New("x")))
	assert.Empty(t, errorCode(nil))
}
