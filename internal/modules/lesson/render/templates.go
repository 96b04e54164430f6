package render

import (
	"html/template"
	"strings"
)

var templates = template.Must(template.New("render").Funcs(template.FuncMap{
	"join": joinActions,
}).Parse(`
{{define "markdown"}}<div class="content-markdown{{if .Latex}} latex{{end}}">{{if .Latex}}{{.Body}}{{else}}<p class="whitespace-pre-line">{{.Body}}</p>{{end}}</div>{{end}}

{{define "question"}}<div class="content-question">
<div class="question-text">{{.Text}}</div>
{{- if .MultipleChoice}}
{{- if .NoOptions}}
<div class="notice no-options">{{.NoOptions}}</div>
{{- else}}
<div class="options">
{{- range .Options}}
<button type="button" class="option{{if .Selected}} selected{{end}}{{if .Correct}} correct{{end}}{{if .Incorrect}} incorrect{{end}}" data-index="{{.Index}}"{{if $.Checking}} disabled{{end}}>{{.Label}}</button>
{{- end}}
</div>
{{- end}}
{{- end}}
{{- if .ShortAnswer}}
<textarea class="short-answer" placeholder="Type your answer here..."{{if .Checking}} disabled{{end}}>{{.Answer}}</textarea>
{{- end}}
{{- if .Visualization}}
<div class="visualization-placeholder">Visualization will appear here</div>
{{- end}}
{{- if .IsCorrect}}
<div class="feedback correct">{{.CorrectLabel}}</div>
{{- end}}
{{- if .ShowError}}
<div class="feedback incorrect">{{.IncorrectLabel}}</div>
{{- end}}
{{- if .ShowExplanation}}
<div class="explanation"><p><b>Explanation:</b></p>{{.Explanation}}</div>
{{- end}}
</div>{{end}}

{{define "video"}}<div class="content-video">
<div class="video-frame" data-src="{{.URL}}">
<div class="video-title">Video Content</div>
<div class="video-caption">{{.Caption}}</div>
{{- if gt .Duration 0}}
<div class="video-duration">Duration: {{.Duration}} seconds</div>
{{- end}}
</div>
</div>{{end}}

{{define "visualization"}}<div class="content-visualization" data-engine="{{.Engine}}"{{if .Config}} data-config="{{.Config}}"{{end}}>
<div class="visualization-placeholder">{{.Placeholder}}</div>
</div>{{end}}

{{define "page"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.LessonTitle}} · {{.CourseTitle}}</title>
</head>
<body>
<div class="progress{{if .Complete}} complete{{end}}" role="progressbar" aria-valuenow="{{.Progress}}" aria-valuemin="0" aria-valuemax="100" style="width: {{.Progress}}%"></div>
<nav aria-label="Breadcrumb">
<ol>
<li><a href="{{.CourseURL}}">{{.CourseTitle}}</a></li>
<li>{{.ChapterTitle}}</li>
<li aria-current="page">{{.LessonTitle}}</li>
</ol>
</nav>
<h1>{{.LessonTitle}}</h1>
{{- if .LessonDescription}}
<p class="lesson-description">{{.LessonDescription}}</p>
{{- end}}
<section class="lesson-content">
{{- range .Completed}}
<div class="item completed">{{.HTML}}</div>
{{- end}}
{{- if .Current}}
<div class="item current" data-actions="{{join .Current.Actions}}">{{.Current.HTML}}</div>
{{- end}}
</section>
{{- if .Complete}}
<p class="lesson-complete"><a href="{{.CourseURL}}">Back to course</a></p>
{{- end}}
</body>
</html>{{end}}
`))

func joinActions(actions []Action) string {
	parts := make([]string, 0, len(actions))
	for _, a := range actions {
		parts = append(parts, string(a))
	}
	return strings.Join(parts, " ")
}
