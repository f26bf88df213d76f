package notify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Backtthefuture/weibocheck/internal/engine"
	"github.com/Backtthefuture/weibocheck/internal/model"
)

var summary = &engine.Summary{
	RunID: "run-1",
	Stats: model.Stats{TotalTopics: 3, HighScoreCount: 1, MediumScoreCount: 1, AvgScore: 66.7, DeepDiveCount: 1},
	Top: []model.AnalysisResult{
		{Title: "高分话题", TotalScore: 95, Product: &model.ProductIdea{Name: "产品A"}},
		{Title: "低分话题", TotalScore: 40},
	},
	Report: engine.Report{HTMLPath: "output/weibo_hotspot_analysis_enhanced_20261018.html"},
}

func TestFormat(t *testing.T) {
	text := Format(summary)
	assert.Contains(t, text, "run-1")
	assert.Contains(t, text, "平均分 66.7")
	assert.Contains(t, text, "1. 高分话题  95 分  创意：产品A")
	assert.Contains(t, text, "2. 低分话题  40 分\n")
	assert.Contains(t, text, "weibo_hotspot_analysis_enhanced_20261018.html")
}

func TestNew_Disabled(t *testing.T) {
	assert.Nil(t, New("", "C1"))
	assert.Nil(t, New("xoxb", ""))

	var n *Notifier
	assert.NoError(t, n.Notify(context.Background(), summary))
}

func TestNotify_SlackAPI(t *testing.T) {
	var gotText, gotChannel string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat.postMessage", r.URL.Path)
		require.NoError(t, r.ParseForm())
		gotText = r.PostForm.Get("text")
		gotChannel = r.PostForm.Get("channel")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok": true, "channel": "C1", "ts": "1700000000.000100"}`))
	}))
	defer srv.Close()

	n := New("xoxb-test", "C1", slack.OptionAPIURL(srv.URL+"/"))
	require.NotNil(t, n)
	require.NoError(t, n.Notify(context.Background(), summary))
	assert.Equal(t, "C1", gotChannel)
	assert.Contains(t, gotText, "高分话题")
}

func TestNotify_SlackError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok": false, "error": "channel_not_found"}`))
	}))
	defer srv.Close()

	err := New("xoxb-test", "C404", slack.OptionAPIURL(srv.URL+"/")).Notify(context.Background(), summary)
	assert.ErrorContains(t, err, "channel_not_found")
}

type fakePoster struct {
	channel string
	calls   int
	err     error
}

func (f *fakePoster) PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error) {
	f.calls++
	f.channel = channelID
	return channelID, "1700000000.000100", f.err
}

func TestNotify_CustomPoster(t *testing.T) {
	p := &fakePoster{}
	n := NewWithPoster(p, "C2")
	require.NoError(t, n.Notify(context.Background(), summary))
	assert.Equal(t, 1, p.calls)
	assert.Equal(t, "C2", p.channel)

	require.NoError(t, n.Notify(context.Background(), nil))
	assert.Equal(t, 1, p.calls)

	p.err = errors.New("rate_limited")
	assert.ErrorContains(t, n.Notify(context.Background(), summary), "rate_limited")
}
