package present

import "html/template"

var presentationTemplate = template.Must(template.New("presentation").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  body { margin: 0; font-family: "Segoe UI", system-ui, sans-serif; background: #f2f4f7; color: #1f2933; display: flex; }
  #page { position: relative; margin: 24px; width: {{.PageWidth}}px; height: {{.PageHeight}}px; background: #fff; box-shadow: 0 2px 12px rgba(0,0,0,.15); flex: none; }
  #page img { width: 100%; height: 100%; }
  .highlight { position: absolute; border: 2px solid transparent; border-radius: 3px; opacity: 0; transition: opacity .3s; pointer-events: none; }
  .highlight.active { opacity: 1; }
  .highlight.review { border-style: dashed; }
  #panel { margin: 24px 24px 24px 0; max-width: 380px; }
  #panel h1 { font-size: 1.3rem; }
  #step-title { font-size: 1.05rem; margin-bottom: .3rem; }
  #step-narrative { line-height: 1.5; min-height: 5em; }
  #review-note { color: #8a6d00; font-size: .85rem; display: none; }
  #controls button { padding: .4rem .9rem; margin-right: .4rem; border: 1px solid #cbd2d9; border-radius: 4px; background: #fff; cursor: pointer; }
  #controls button:hover { background: #e4e7eb; }
  #progress { margin-top: .6rem; font-size: .85rem; color: #52606d; }
</style>
</head>
<body>
<div id="page">
{{if .PageImageURL}}  <img src="{{.PageImageURL}}" alt="document page">
{{end}}</div>
<div id="panel">
  <h1>{{.Title}}</h1>
  <p>{{.Introduction}}</p>
  <h2 id="step-title"></h2>
  <p id="step-narrative"></p>
  <p id="review-note">This step could not be matched to the page and needs review.</p>
  <div id="controls">
    <button id="prev">&#8592; Back</button>
    <button id="next">Next &#8594;</button>
    <button id="autoplay">Autoplay</button>
  </div>
  <div id="progress"></div>
  <p>{{.Conclusion}}</p>
</div>
<script>
var steps = {{.StepsJSON}};
var current = 0;
var timer = null;
var playing = false;
var audio = null;
var page = document.getElementById("page");

steps.forEach(function (s) {
  var div = document.createElement("div");
  div.className = "highlight" + (s.needsReview ? " review" : "");
  div.id = "hl-" + s.number;
  div.style.left = s.x + "px";
  div.style.top = s.y + "px";
  div.style.width = s.width + "px";
  div.style.height = s.height + "px";
  div.style.borderColor = s.color;
  div.style.background = s.color + "33";
  page.appendChild(div);
});

function show(i) {
  if (i < 0 || i >= steps.length) return;
  current = i;
  var s = steps[i];
  steps.forEach(function (o) {
    document.getElementById("hl-" + o.number).classList.toggle("active", o.number === s.number);
  });
  document.getElementById("step-title").textContent = "Step " + s.number + ": " + s.title;
  document.getElementById("step-narrative").textContent = s.narrative;
  document.getElementById("review-note").style.display = s.needsReview ? "block" : "none";
  document.getElementById("progress").textContent = (i + 1) + " / " + steps.length;
  if (audio) { audio.pause(); audio = null; }
  if (s.audioURI) {
    audio = new Audio(s.audioURI);
    audio.play().catch(function () {});
  }
}

function stopAutoplay() {
  playing = false;
  if (timer) { clearTimeout(timer); timer = null; }
  document.getElementById("autoplay").textContent = "Autoplay";
}

function scheduleNext() {
  if (!playing) return;
  var s = steps[current];
  timer = setTimeout(function () {
    if (current + 1 >= steps.length) { stopAutoplay(); return; }
    show(current + 1);
    scheduleNext();
  }, (s.duration > 0 ? s.duration : 8) * 1000);
}

document.getElementById("prev").addEventListener("click", function () { stopAutoplay(); show(current - 1); });
document.getElementById("next").addEventListener("click", function () { stopAutoplay(); show(current + 1); });
document.getElementById("autoplay").addEventListener("click", function () {
  if (playing) { stopAutoplay(); return; }
  playing = true;
  this.textContent = "Stop";
  show(current);
  scheduleNext();
});

if (steps.length > 0) show(0);
</script>
</body>
</html>
`))
