package ui

import (
	"fmt"
	"html/template"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Template functions available in all templates.
var templateFuncs = template.FuncMap{
	"formatTime": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Format("2006-01-02 15:04")
	},
	"timeAgo": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return humanize.Time(t)
	},
	"comma": func(n int) string {
		return humanize.Comma(int64(n))
	},
	"pct": func(f float64) string {
		return fmt.Sprintf("%.1f%%", f)
	},
	"priorityColor": func(p fmt.Stringer) string {
		if p.String() == "urgent" {
			return "bg-red-100 text-red-800"
		}
		return "bg-blue-100 text-blue-800"
	},
	"sentimentColor": func(s string) string {
		switch s {
		case "positive":
			return "bg-green-100 text-green-800"
		case "negative":
			return "bg-red-100 text-red-800"
		default:
			return "bg-gray-100 text-gray-800"
		}
	},
	"stateColor": func(state string) string {
		switch strings.ToUpper(state) {
		case "PENDING", "WAITING", "IDLE":
			return "bg-yellow-100 text-yellow-800"
		case "PROCESSING", "RUNNING":
			return "bg-blue-100 text-blue-800"
		case "RESOLVED", "COMPLETED", "DRAINED":
			return "bg-green-100 text-green-800"
		case "PAUSED":
			return "bg-orange-100 text-orange-800"
		default:
			return "bg-gray-100 text-gray-800"
		}
	},
	"truncate": func(s string, n int) string {
		if len(s) <= n {
			return s
		}
		return s[:n] + "..."
	},
	"join": strings.Join,
	"selected": func(cur, want string) template.HTMLAttr {
		if cur == want {
			return "selected"
		}
		return ""
	},
}

// renderTemplate renders a template with the given data.
func renderTemplate(w io.Writer, name string, data map[string]any) error {
	content, ok := templates[name]
	if !ok {
		return fmt.Errorf("template not found: %s", name)
	}

	layout, ok := templates["layout"]
	if !ok {
		return fmt.Errorf("layout template not found")
	}

	tmpl, err := template.New("layout").Funcs(templateFuncs).Parse(layout)
	if err != nil {
		return fmt.Errorf("parse layout: %w", err)
	}

	_, err = tmpl.New("content").Parse(content)
	if err != nil {
		return fmt.Errorf("parse content: %w", err)
	}

	// Add shared components.
	for compName, compContent := range templates {
		if strings.HasPrefix(compName, "components/") {
			_, err = tmpl.New(filepath.Base(compName)).Parse(compContent)
			if err != nil {
				return fmt.Errorf("parse component %s: %w", compName, err)
			}
		}
	}

	return tmpl.Execute(w, data)
}

// templates holds all template content.
var templates = map[string]string{
	"layout": `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <script src="https://cdn.tailwindcss.com"></script>
</head>
<body class="bg-slate-50 min-h-screen">
    <nav class="bg-white shadow-sm border-b">
        <div class="max-w-7xl mx-auto px-4 sm:px-6 lg:px-8">
            <div class="flex justify-between h-16">
                <div class="flex">
                    <a href="/" class="flex items-center px-2 py-2 text-xl font-bold text-indigo-600">Triage</a>
                    <div class="hidden sm:ml-6 sm:flex sm:space-x-8">
                        <a href="/" class="text-gray-500 hover:text-gray-700 inline-flex items-center px-1 pt-1 text-sm font-medium">Dashboard</a>
                        <a href="/queue" class="text-gray-500 hover:text-gray-700 inline-flex items-center px-1 pt-1 text-sm font-medium">Priority Queue</a>
                        <a href="/analytics" class="text-gray-500 hover:text-gray-700 inline-flex items-center px-1 pt-1 text-sm font-medium">Analytics</a>
                        <a href="/settings" class="text-gray-500 hover:text-gray-700 inline-flex items-center px-1 pt-1 text-sm font-medium">Settings</a>
                    </div>
                </div>
                <div class="flex items-center">
                    <span class="text-xs px-2 py-1 rounded-full {{stateColor .QueuePhase}}">queue {{.QueuePhase}}</span>
                </div>
            </div>
        </div>
    </nav>

    <main class="max-w-7xl mx-auto py-6 sm:px-6 lg:px-8">
        {{template "content" .}}
    </main>
</body>
</html>`,

	"components/stat_card": `{{define "stat_card"}}
<div class="bg-white overflow-hidden shadow rounded-lg">
    <div class="p-5">
        <dl>
            <dt class="text-sm font-medium text-gray-500 truncate">{{.Label}}</dt>
            <dd class="text-2xl font-semibold {{.Color}}">{{.Value}}</dd>
        </dl>
    </div>
</div>
{{end}}`,

	"components/email_card": `{{define "email_card"}}
<li class="bg-white shadow rounded-lg p-4">
    <div class="flex items-center justify-between">
        <a href="/emails/{{.ID}}" class="text-sm font-medium text-indigo-600 hover:text-indigo-500 truncate">{{.Subject}}</a>
        <span class="text-xs text-gray-500" title="{{formatTime .ReceivedAt}}">{{timeAgo .ReceivedAt}}</span>
    </div>
    <p class="mt-1 text-sm text-gray-600">{{.Sender}} · {{.Category}}</p>
    <p class="mt-2 text-sm text-gray-500">{{truncate .Body 160}}</p>
    <div class="mt-3 flex flex-wrap gap-2 text-xs">
        <span class="px-2 py-0.5 rounded-full {{priorityColor .Priority}}">{{.Priority}}</span>
        <span class="px-2 py-0.5 rounded-full {{sentimentColor (print .Sentiment)}}">{{.Sentiment}}</span>
        <span class="px-2 py-0.5 rounded-full {{stateColor (print .Status)}}">{{.Status}}</span>
        {{with .ExtractedInfo.Keywords}}<span class="text-gray-500">Keywords: {{join . ", "}}</span>{{end}}
    </div>
</li>
{{end}}`,

	"dashboard": `{{define "content"}}
<div class="px-4 py-6 sm:px-0">
    <div class="mb-8">
        <h1 class="text-2xl font-semibold text-gray-900">AI Communication Assistant</h1>
        <p class="mt-1 text-sm text-gray-500">Intelligent email management and automated responses</p>
    </div>

    <div class="grid grid-cols-1 gap-5 sm:grid-cols-2 lg:grid-cols-4 mb-8">
        {{template "stat_card" (index .Cards 0)}}
        {{template "stat_card" (index .Cards 1)}}
        {{template "stat_card" (index .Cards 2)}}
        {{template "stat_card" (index .Cards 3)}}
    </div>

    <form method="GET" action="/" class="bg-white shadow rounded-lg p-4 mb-6 flex flex-wrap gap-4 items-end">
        <div>
            <label for="q" class="block text-xs font-medium text-gray-500">Search</label>
            <input id="q" name="q" value="{{.Filter.Search}}" placeholder="Subject or sender" class="mt-1 border rounded px-2 py-1 text-sm">
        </div>
        <div>
            <label for="priority" class="block text-xs font-medium text-gray-500">Priority</label>
            <select id="priority" name="priority" class="mt-1 border rounded px-2 py-1 text-sm">
                <option value="all">All Priority</option>
                <option value="urgent" {{selected (print .Filter.Priority) "urgent"}}>Urgent</option>
                <option value="normal" {{selected (print .Filter.Priority) "normal"}}>Normal</option>
            </select>
        </div>
        <div>
            <label for="sentiment" class="block text-xs font-medium text-gray-500">Sentiment</label>
            <select id="sentiment" name="sentiment" class="mt-1 border rounded px-2 py-1 text-sm">
                <option value="all">All Sentiment</option>
                <option value="positive" {{selected (print .Filter.Sentiment) "positive"}}>Positive</option>
                <option value="neutral" {{selected (print .Filter.Sentiment) "neutral"}}>Neutral</option>
                <option value="negative" {{selected (print .Filter.Sentiment) "negative"}}>Negative</option>
            </select>
        </div>
        <button type="submit" class="px-3 py-1.5 rounded bg-indigo-600 text-white text-sm">Filter</button>
    </form>

    <div class="flex justify-between items-center mb-3">
        <h2 class="text-lg font-medium text-gray-900">Support Emails ({{len .Emails}})</h2>
        <span class="text-sm text-red-600">{{.UrgentShown}} urgent</span>
    </div>
    <ul class="space-y-3">
        {{range .Emails}}{{template "email_card" .}}{{else}}
        <li class="text-center text-gray-500 py-12">No emails match your current filters</li>
        {{end}}
    </ul>
</div>
{{end}}`,

	"email_detail": `{{define "content"}}
<div class="px-4 py-6 sm:px-0">
    <a href="/" class="text-sm text-indigo-600 hover:text-indigo-500">&larr; Back to Dashboard</a>
    <div class="mt-4 mb-6">
        <h1 class="text-2xl font-semibold text-gray-900">{{.Email.Subject}}</h1>
        <p class="mt-1 text-sm text-gray-500">{{.Email.Sender}} · {{formatTime .Email.ReceivedAt}} ({{timeAgo .Email.ReceivedAt}})</p>
        <div class="mt-2 flex gap-2 text-xs">
            <span class="px-2 py-0.5 rounded-full {{priorityColor .Email.Priority}}">{{.Email.Priority}}</span>
            <span class="px-2 py-0.5 rounded-full {{sentimentColor (print .Email.Sentiment)}}">{{.Email.Sentiment}}</span>
            <span class="px-2 py-0.5 rounded-full {{stateColor (print .Email.Status)}}">{{.Email.Status}}</span>
            {{if .InQueue}}
            <span class="px-2 py-0.5 rounded-full {{stateColor (print .QueueStatus)}}">{{.QueueStatus}}{{if .Position}} · #{{.Position}} in queue{{end}}</span>
            {{end}}
        </div>
    </div>

    <div class="grid grid-cols-1 lg:grid-cols-2 gap-6">
        <div class="bg-white shadow rounded-lg p-5">
            <h3 class="text-lg font-medium text-gray-900 mb-3">Original Email</h3>
            <p class="text-sm text-gray-700 whitespace-pre-line">{{.Email.Body}}</p>
        </div>
        <div class="bg-white shadow rounded-lg p-5">
            <h3 class="text-lg font-medium text-gray-900 mb-3">Extracted Information</h3>
            <p class="text-sm text-gray-500">Category: {{.Email.Category}}</p>
            {{with .Email.ExtractedInfo.ContactDetails}}<p class="text-sm text-gray-500">Contact: {{.}}</p>{{end}}
            {{with .Email.ExtractedInfo.Requirements}}
            <p class="mt-3 text-sm font-medium text-gray-700">Requirements:</p>
            <ul class="list-disc ml-5 text-sm text-gray-600">{{range .}}<li>{{.}}</li>{{end}}</ul>
            {{end}}
            {{with .Email.ExtractedInfo.Keywords}}
            <p class="mt-3 text-sm font-medium text-gray-700">Keywords:</p>
            <p class="text-sm text-gray-600">{{join . ", "}}</p>
            {{end}}
        </div>
    </div>

    {{with .Email.AIResponse}}
    <div class="mt-6 bg-white shadow rounded-lg p-5">
        <h3 class="text-lg font-medium text-gray-900 mb-3">AI-Generated Response</h3>
        <p class="text-sm text-gray-700 whitespace-pre-line">{{.}}</p>
    </div>
    {{end}}
</div>
{{end}}`,

	"components/queue_list": `{{define "queue_list"}}
<ul class="divide-y divide-gray-200">
    {{range .}}
    <li class="px-4 py-3 flex items-center justify-between">
        <div class="min-w-0">
            <a href="/emails/{{.Entry.ID}}" class="text-sm font-medium text-indigo-600 hover:text-indigo-500 truncate">{{if .Email}}{{.Email.Subject}}{{else}}{{.Entry.ID}}{{end}}</a>
            <p class="text-xs text-gray-500">{{if .Email}}{{.Email.Sender}} · {{end}}{{timeAgo .Entry.ReceivedAt}}</p>
        </div>
        <div class="flex items-center gap-2">
            {{if .Entry.Position}}<span class="text-xs text-gray-500">#{{.Entry.Position}} in queue</span>{{end}}
            <span class="text-xs px-2 py-0.5 rounded-full {{stateColor (print .Entry.Status)}}">{{.Entry.Status}}</span>
        </div>
    </li>
    {{end}}
</ul>
{{end}}`,

	"queue": `{{define "content"}}
<div class="px-4 py-6 sm:px-0">
    <div class="mb-6 flex justify-between items-center">
        <div>
            <h1 class="text-2xl font-semibold text-gray-900">Priority Queue</h1>
            <p class="mt-1 text-sm text-gray-500">Real-time email processing based on urgency</p>
        </div>
        <div class="flex gap-2">
            <form method="POST" action="/queue/toggle">
                <button type="submit" class="px-3 py-1.5 rounded bg-indigo-600 text-white text-sm">{{if .Snapshot.Running}}Pause{{else if eq (print .Snapshot.Phase) "PAUSED"}}Resume{{else}}Start{{end}}</button>
            </form>
            <form method="POST" action="/queue/reset">
                <button type="submit" class="px-3 py-1.5 rounded border text-sm">Reset</button>
            </form>
        </div>
    </div>

    <div class="bg-white shadow rounded-lg p-5 mb-6">
        <h3 class="text-lg font-medium text-gray-900 mb-3">Queue Processing Status</h3>
        <div class="grid grid-cols-2 sm:grid-cols-4 gap-4 mb-4 text-center">
            <div><p class="text-2xl font-semibold text-red-600">{{.Snapshot.UrgentCount}}</p><p class="text-xs text-gray-500">Urgent</p></div>
            <div><p class="text-2xl font-semibold text-blue-600">{{.Snapshot.NormalCount}}</p><p class="text-xs text-gray-500">Normal</p></div>
            <div><p class="text-2xl font-semibold text-yellow-600">{{.Snapshot.InFlightCount}}</p><p class="text-xs text-gray-500">Processing</p></div>
            <div><p class="text-2xl font-semibold text-green-600">{{.Snapshot.CompletedCount}}</p><p class="text-xs text-gray-500">Completed</p></div>
        </div>
        <div class="flex justify-between text-sm text-gray-600 mb-1">
            <span>Progress: {{.Snapshot.CompletedCount}} of {{.Snapshot.Total}} emails processed</span>
            <span>{{pct .Snapshot.Progress}} complete</span>
        </div>
        <div class="w-full bg-gray-200 rounded-full h-3">
            <div class="bg-indigo-600 h-3 rounded-full" style="width: {{printf "%.1f" .Snapshot.Progress}}%"></div>
        </div>
    </div>

    <div class="grid grid-cols-1 lg:grid-cols-2 gap-6">
        <div class="bg-white shadow rounded-lg">
            <h3 class="px-4 py-3 border-b text-lg font-medium text-red-700">Urgent</h3>
            {{if .Urgent}}{{template "queue_list" .Urgent}}{{else}}<p class="px-4 py-6 text-sm text-gray-500">No urgent emails in queue</p>{{end}}
        </div>
        <div class="bg-white shadow rounded-lg">
            <h3 class="px-4 py-3 border-b text-lg font-medium text-blue-700">Normal</h3>
            {{if .Normal}}{{template "queue_list" .Normal}}{{else}}<p class="px-4 py-6 text-sm text-gray-500">No normal priority emails in queue</p>{{end}}
        </div>
    </div>
</div>
<script>
    (function () {
        var es = new EventSource("/api/v1/sse/queue");
        es.addEventListener("update", function () { window.location.reload(); });
        es.addEventListener("drained", function () { es.close(); });
        es.addEventListener("closed", function () { es.close(); });
    })();
</script>
{{end}}`,

	"analytics": `{{define "content"}}
<div class="px-4 py-6 sm:px-0">
    <h1 class="text-2xl font-semibold text-gray-900 mb-6">Analytics</h1>

    <div class="grid grid-cols-1 gap-5 sm:grid-cols-3 mb-8">
        <div class="bg-white shadow rounded-lg p-5"><p class="text-sm text-gray-500">Emails This Week</p><p class="text-2xl font-bold text-blue-600">{{comma .Summary.WeekEmails}}</p></div>
        <div class="bg-white shadow rounded-lg p-5"><p class="text-sm text-gray-500">Resolved This Week</p><p class="text-2xl font-bold text-green-600">{{comma .Summary.WeekResolved}}</p></div>
        <div class="bg-white shadow rounded-lg p-5"><p class="text-sm text-gray-500">Resolution Rate</p><p class="text-2xl font-bold text-green-600">{{pct .Summary.ResolutionRate}}</p></div>
    </div>

    <div class="grid grid-cols-1 lg:grid-cols-2 gap-6">
        <div class="bg-white shadow rounded-lg p-5">
            <h3 class="text-lg font-medium text-gray-900 mb-3">Email Volume</h3>
            <table class="w-full text-sm">
                <thead><tr class="text-left text-gray-500"><th>Date</th><th>Emails</th><th>Resolved</th></tr></thead>
                <tbody>
                {{range .Summary.Volume}}<tr><td>{{.Date}}</td><td>{{.Emails}}</td><td>{{.Resolved}}</td></tr>{{end}}
                </tbody>
            </table>
        </div>
        <div class="bg-white shadow rounded-lg p-5">
            <h3 class="text-lg font-medium text-gray-900 mb-3">Sentiment Distribution</h3>
            {{range .Summary.Sentiment}}
            <div class="mb-2">
                <div class="flex justify-between text-sm"><span class="capitalize">{{.Name}}</span><span>{{.Count}} ({{pct .Percent}})</span></div>
                <div class="w-full bg-gray-200 rounded-full h-2"><div class="h-2 rounded-full bg-indigo-500" style="width: {{printf "%.1f" .Percent}}%"></div></div>
            </div>
            {{end}}
        </div>
        <div class="bg-white shadow rounded-lg p-5 lg:col-span-2">
            <h3 class="text-lg font-medium text-gray-900 mb-3">Category Distribution</h3>
            <ul class="divide-y divide-gray-200 text-sm">
                {{range .Summary.Categories}}<li class="py-2 flex justify-between"><span>{{.Name}}</span><span>{{.Count}}</span></li>{{else}}<li class="py-2 text-gray-500">No categories</li>{{end}}
            </ul>
        </div>
    </div>
</div>
{{end}}`,

	"settings": `{{define "content"}}
<div class="px-4 py-6 sm:px-0">
    <h1 class="text-2xl font-semibold text-gray-900">Settings</h1>
    <p class="mt-1 mb-6 text-sm text-gray-500">Configure AI assistant and email processing preferences</p>
    <div class="bg-white shadow rounded-lg p-5">
        <dl class="grid grid-cols-1 sm:grid-cols-2 gap-4 text-sm">
            <div><dt class="text-gray-500">Email Provider</dt><dd class="font-medium">{{.Settings.EmailProvider}}</dd></div>
            <div><dt class="text-gray-500">Auto-Response</dt><dd class="font-medium">{{if .Settings.AutoResponse}}Enabled{{else}}Disabled{{end}}</dd></div>
            <div><dt class="text-gray-500">Urgent Keywords</dt><dd class="font-medium">{{join .Settings.UrgentKeywords ", "}}</dd></div>
            <div><dt class="text-gray-500">Response Template</dt><dd class="font-medium capitalize">{{.Settings.ResponseTemplate}}</dd></div>
            <div><dt class="text-gray-500">Notifications</dt><dd class="font-medium">{{if .Settings.Notifications}}Enabled{{else}}Disabled{{end}}</dd></div>
            <div><dt class="text-gray-500">Batch Size</dt><dd class="font-medium">{{.Settings.BatchSize}} emails</dd></div>
            <div><dt class="text-gray-500">Data Retention (days)</dt><dd class="font-medium">{{.Settings.DataRetentionDays}}</dd></div>
        </dl>
    </div>
</div>
{{end}}`,

	"error": `{{define "content"}}
<div class="px-4 py-12 sm:px-0 text-center">
    <h1 class="text-2xl font-semibold text-gray-900">{{.Heading}}</h1>
    <p class="mt-2 text-sm text-gray-500">{{.Message}}</p>
    <a href="/" class="mt-4 inline-block text-sm text-indigo-600 hover:text-indigo-500">&larr; Back to Dashboard</a>
</div>
{{end}}`,
}
