package site

import "html/template"

var pageStyle = `
body {
    font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
    max-width: 900px;
    margin: 0 auto;
    padding: 20px;
    background: #f5f5f5;
    color: #333;
}
h1 { color: #c0392b; }
a { color: #2980b9; }
.card {
    background: white;
    border-radius: 8px;
    padding: 20px;
    margin: 15px 0;
    box-shadow: 0 2px 4px rgba(0,0,0,0.1);
}
.endpoint {
    background: #ecf0f1;
    padding: 8px 12px;
    border-radius: 4px;
    font-family: monospace;
    display: inline-block;
    margin: 5px 0;
}
.stats {
    display: grid;
    grid-template-columns: repeat(auto-fit, minmax(150px, 1fr));
    gap: 15px;
}
.stat {
    background: #3498db;
    color: white;
    padding: 15px;
    border-radius: 8px;
    text-align: center;
}
.stat-number { font-size: 2em; font-weight: bold; }
.blog {
    border-left: 4px solid #c0392b;
    padding-left: 15px;
    margin: 15px 0;
}
.blog h3 { margin: 0 0 10px 0; }
.blog-meta { color: #666; font-size: 0.9em; }
.breach {
    background: white;
    border-radius: 8px;
    padding: 15px 20px;
    margin: 10px 0;
    box-shadow: 0 2px 4px rgba(0,0,0,0.1);
}
.breach h3 { margin: 0 0 8px 0; }
.tag {
    background: #ecf0f1;
    border-radius: 4px;
    padding: 2px 8px;
    font-size: 0.85em;
    margin-right: 6px;
}
`

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Data Breach RSS Feed</title>
    <style>` + pageStyle + `</style>
</head>
<body>
    <h1>Data Breach RSS Feed</h1>

    <div class="card">
        <h2>Browse</h2>
        <p><span class="endpoint"><a href="breaches.html">breaches.html</a></span> - All breaches</p>
        <h2>Data Feeds</h2>
        <p><span class="endpoint"><a href="rss.xml">rss.xml</a></span> - RSS Feed</p>
        <p><span class="endpoint"><a href="atom.xml">atom.xml</a></span> - Atom Feed</p>
        <p><span class="endpoint"><a href="data.json">data.json</a></span> - Raw breach data (JSON)</p>
        <p><span class="endpoint"><a href="blogs.json">blogs.json</a></span> - Generated blog posts (JSON)</p>
    </div>

    <div class="card">
        <h2>Statistics</h2>
        <div class="stats">
            <div class="stat">
                <div class="stat-number">{{.CaseCount}}</div>
                <div>Breach Cases</div>
            </div>
            <div class="stat">
                <div class="stat-number">{{.BlogCount}}</div>
                <div>Blog Posts</div>
            </div>
        </div>
    </div>

    <div class="card">
        <h2>Recent Blog Posts</h2>
{{if .Recent}}{{range .Recent}}        <div class="blog">
            <h3><a href="blogs/{{.ID}}.html">{{.CompanyName}}</a></h3>
            <p class="blog-meta">Quality Score: {{.QualityScore}} | Generated: {{.GeneratedAt}}</p>
        </div>
{{end}}{{else}}        <p>No blogs generated yet.</p>
{{end}}    </div>
</body>
</html>
`))

var breachesTemplate = template.Must(template.New("breaches").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>All Data Breaches</title>
    <style>` + pageStyle + `</style>
</head>
<body>
    <div class="nav"><a href="index.html">Home</a></div>
    <h1>All Data Breaches</h1>
{{range .Cases}}    <div class="breach">
        <h3>{{.Company}}</h3>
        <p>{{.Description}}</p>
        <p>
            <span class="tag">{{.BreachType}}</span>
            {{if .ThreatActor}}<span class="tag">Actor: {{.ThreatActor}}</span>{{end}}
            {{if .Location}}<span class="tag">{{.Location}}</span>{{end}}
            <span class="tag">Records: {{.RecordsAffected}}</span>
        </p>
        <p class="blog-meta">Reported: {{.DateReported}}{{range .Sources}} | {{.}}{{end}}</p>
        {{if .URL}}<p><a href="{{.URL}}">Source notice</a></p>{{end}}
    </div>
{{end}}</body>
</html>
`))

var postTemplate = template.Must(template.New("post").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Post.Title}}</title>
    <style>` + pageStyle + `</style>
</head>
<body>
    <div class="nav"><a href="../index.html">Home</a></div>
    <h1>{{.Post.Title}}</h1>
    <p class="blog-meta">Generated: {{.GeneratedDate}} | Quality Score: {{.Post.QualityScore}}</p>

    <div class="card">
        <h2>What Happened</h2>
        {{.WhatHappened}}
    </div>

    <div class="card">
        <h2>Who Is Affected</h2>
        {{.WhoIsAffected}}
    </div>

    <div class="card">
        <h2>Contact Us</h2>
        {{.ContactUs}}
    </div>

    {{if .Post.SourceURL}}<div class="card">
        <p><a href="{{.Post.SourceURL}}">Original breach notice</a></p>
    </div>{{end}}
</body>
</html>
`))
