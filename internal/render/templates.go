package render

// The page templates define the shared "menu" and "entries" helpers, so
// they must be parsed into one template set.

const menuTemplate = `{{define "menu"}}{{if .}}<ul class="MMenu">
{{range .}}<li>{{if .Href}}<a href="{{.Href}}"{{if .External}} target="_blank" rel="noopener"{{end}}>{{.Title}}</a>{{else}}<span class="MGroup">{{.Title}}</span>{{end}}
{{template "menu" .Children}}</li>
{{end}}</ul>{{end}}{{end}}`

const entriesTemplate = `{{define "entries"}}<ul class="IEntries">
{{range .}}<li>{{if .Href}}<a href="{{.Href}}">{{.Symbol}}</a>{{else}}<span>{{.Symbol}}</span>{{end}}{{if .Package}} <span class="IPackage">({{.Package}})</span>{{end}}
{{if .Children}}{{template "entries" .Children}}{{end}}</li>
{{end}}</ul>{{end}}`

const pageTemplate = `{{define "page"}}<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<link rel="stylesheet" href="{{.CSSHref}}">
</head>
<body>
<div class="MSidebar">
{{template "menu" .Menu}}
<p class="MIndexLink"><a href="{{.Index}}">Symbol Index</a></p>
</div>
<div class="CContent">
<h1 class="CPageTitle">{{.Title}}</h1>
{{range .Topics}}
<div class="CTopic C{{.Kind}}" id="{{.Anchor}}">
{{if .Title}}<h3 class="CTitle">{{.Title}}</h3>{{end}}
{{with .Prototype}}
<div class="CPrototype">{{if .Params}}<span class="CPre">{{.Pre}}</span><span class="COpen">{{.Open}}</span><table class="CParams">{{range .Params}}<tr><td>{{.}}</td></tr>{{end}}</table><span class="CClose">{{.Close}}</span><span class="CPost">{{.Post}}</span>{{else}}{{.Plain}}{{end}}</div>
{{end}}
<div class="CBody">{{.Body}}</div>
</div>
{{end}}
{{if .Footer}}<p class="CFooter">{{.Footer}}</p>{{end}}
</div>
</body>
</html>
{{end}}`

const indexTemplate = `{{define "index"}}<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<link rel="stylesheet" href="{{.CSSHref}}">
</head>
<body>
<div class="MSidebar">
{{template "menu" .Menu}}
</div>
<div class="CContent">
<h1 class="CPageTitle">{{.Title}}</h1>
<p class="INav">
{{range .Buckets}}<a href="#I{{.Label}}">{{.Label}}</a> {{end}}
</p>
{{range .Buckets}}
<div class="IBucket" id="I{{.Label}}">
<h2>{{.Label}}</h2>
{{template "entries" .Entries}}
</div>
{{end}}
{{if .Footer}}<p class="CFooter">{{.Footer}}</p>{{end}}
</div>
</body>
</html>
{{end}}`

const defaultCSS = `body {
    font-family: Verdana, Arial, sans-serif;
    font-size: 10pt;
    margin: 0;
    color: #000;
    background-color: #fff;
}
.MSidebar {
    float: left;
    width: 220px;
    padding: 15px;
    background-color: #f4f4f4;
    border-right: 1px solid #ccc;
    min-height: 100vh;
    box-sizing: border-box;
}
.MSidebar ul { list-style: none; padding-left: 12px; margin: 4px 0; }
.MGroup { font-weight: bold; }
.CContent { margin-left: 240px; padding: 15px 30px; max-width: 900px; }
.CPageTitle { border-bottom: 2px solid #888; padding-bottom: 6px; }
.CTopic { margin-bottom: 28px; }
.CTitle { margin-bottom: 4px; }
.CPrototype {
    font-family: "Courier New", monospace;
    background-color: #f8f8e8;
    border: 1px solid #c8c8a8;
    padding: 8px 12px;
    margin: 6px 0;
}
.CParams { display: inline-table; vertical-align: top; }
.CParams td { padding: 0 4px; font-family: "Courier New", monospace; }
.CCode {
    font-family: "Courier New", monospace;
    background-color: #f4f4f4;
    border-left: 3px solid #bbb;
    padding: 8px 12px;
    overflow-x: auto;
}
.CHeading { margin: 12px 0 4px 0; }
dt { font-weight: bold; }
dd { margin-bottom: 6px; }
a.CLink { color: #106030; }
.IBucket h2 { border-bottom: 1px solid #bbb; }
.IPackage { color: #666; font-size: 9pt; }
.CFooter { border-top: 1px solid #ccc; margin-top: 30px; padding-top: 8px; color: #666; }
`
