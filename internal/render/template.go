package render

const reportTemplate = `<!DOCTYPE html>
<html lang="zh-CN">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>微博热搜产品创意分析 - {{.Date}}</title>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, "PingFang SC", "Microsoft YaHei", sans-serif; background: #f5f7fa; color: #333; margin: 0; padding: 24px; }
.container { max-width: 1280px; margin: 0 auto; }
header { background: linear-gradient(135deg, #ff8a00, #e52e71); color: #fff; padding: 28px 32px; border-radius: 12px; }
header h1 { margin: 0 0 8px; font-size: 28px; }
.stats { display: grid; grid-template-columns: repeat(5, 1fr); gap: 16px; margin: 24px 0; }
.stat-card { background: #fff; border-radius: 10px; padding: 18px; text-align: center; box-shadow: 0 2px 8px rgba(0,0,0,0.06); }
.stat-value { font-size: 30px; font-weight: 700; color: #e52e71; }
.stat-label { font-size: 13px; color: #888; margin-top: 6px; }
.methodology { background: #fff; border-radius: 10px; padding: 18px 24px; margin-bottom: 24px; font-size: 14px; line-height: 1.8; }
.toolbar { display: flex; justify-content: flex-end; margin-bottom: 12px; }
#sort-toggle { background: #e52e71; color: #fff; border: none; border-radius: 6px; padding: 8px 18px; cursor: pointer; }
table { width: 100%; border-collapse: collapse; background: #fff; border-radius: 10px; overflow: hidden; }
th, td { padding: 14px 12px; border-bottom: 1px solid #eee; vertical-align: top; text-align: left; font-size: 14px; }
th { background: #fafafa; color: #666; }
.rank { font-weight: 700; color: #e52e71; width: 48px; }
.heat { display: block; color: #999; font-size: 12px; margin-top: 4px; }
.score-badge { display: inline-block; min-width: 48px; text-align: center; padding: 6px 10px; border-radius: 16px; font-weight: 700; color: #fff; }
.score-excellent { background: #2ecc71; }
.score-good { background: #f39c12; }
.score-fair { background: #95a5a6; }
.score-detail { display: block; color: #999; font-size: 12px; margin-top: 6px; }
.idea { border-left: 3px solid #e52e71; padding: 6px 10px; margin-bottom: 8px; background: #fff8fb; }
.idea h4 { margin: 0 0 4px; }
.idea p { margin: 2px 0; }
.dimension-tag { display: inline-block; font-size: 12px; padding: 2px 8px; border-radius: 10px; color: #fff; margin-bottom: 4px; }
.dimension-daily-life { background: #3498db; }
.dimension-social-entertainment { background: #9b59b6; }
.dimension-commercial-value { background: #e67e22; }
.deep-dive-mark { color: #e52e71; font-size: 12px; font-weight: 700; }
.no-idea { color: #999; }
footer { text-align: center; color: #aaa; font-size: 12px; margin-top: 24px; }
</style>
</head>
<body>
<div class="container">
<header>
<h1>微博热搜产品创意分析</h1>
<div class="date">{{.Date}}</div>
</header>

<section class="stats">
<div class="stat-card" id="stat-total"><div class="stat-value">{{.Stats.TotalTopics}}</div><div class="stat-label">分析话题</div></div>
<div class="stat-card" id="stat-deep-dive"><div class="stat-value">{{.Stats.DeepDiveCount}}</div><div class="stat-label">深度挖掘</div></div>
<div class="stat-card" id="stat-excellent"><div class="stat-value">{{.Stats.HighScoreCount}}</div><div class="stat-label">优秀 (≥{{.DeepDive}}分)</div></div>
<div class="stat-card" id="stat-good"><div class="stat-value">{{.Stats.MediumScoreCount}}</div><div class="stat-label">良好 ({{.Idea}}-{{.GoodMax}}分)</div></div>
<div class="stat-card" id="stat-average"><div class="stat-value">{{printf "%.1f" .Stats.AvgScore}}</div><div class="stat-label">平均分</div></div>
</section>

<section class="methodology">
<strong>评分方法</strong><br>
有趣度（满分 80 分）：新奇有趣、激发好奇心、娱乐性、独特体验。<br>
有用度（满分 20 分）：解决实际问题、实用性、提升效率。<br>
总分 ≥{{.Idea}} 分的话题给出产品创意，总分 ≥{{.DeepDive}} 分的话题从日常生活、社交娱乐、商业价值三个维度进行深度挖掘。
</section>

<div class="toolbar"><button id="sort-toggle" type="button">按分数排序</button></div>

<table>
<thead>
<tr><th>排名</th><th>话题</th><th>摘要</th><th>产品创意</th><th>评分</th></tr>
</thead>
<tbody id="results-body">
{{- range .Rows}}
<tr data-index="{{.Index}}" data-rank="{{.Rank}}" data-score="{{.TotalScore}}" class="tier-{{.Tier}}">
<td class="rank">{{.Rank}}</td>
<td class="title">{{.Title}}<span class="heat">热度 {{.HeatText}}</span></td>
<td class="summary">{{.Summary}}</td>
<td class="product">
{{- if .IsDeepDive}}
<div class="ideas deep-dive"><div class="deep-dive-mark">深度挖掘</div>
{{- range .ProductIdeas}}
<div class="idea" data-dimension="{{.Dimension}}"><span class="dimension-tag dimension-{{.Dimension}}">{{.Dimension.Label}}</span><h4>{{.Name}}</h4><p>核心功能：{{.Features}}</p><p>目标用户：{{.TargetUsers}}</p>{{with .UniqueValue}}<p>独特价值：{{.}}</p>{{end}}</div>
{{- end}}
</div>
{{- else if and .HasIdea .Product}}
<div class="idea single"><h4>{{.Product.Name}}</h4><p>核心功能：{{.Product.Features}}</p><p>目标用户：{{.Product.TargetUsers}}</p>{{with .Product.Description}}<p>{{.}}</p>{{end}}</div>
{{- else}}
<div class="no-idea">暂无产品创意<br><span class="reason">{{.ReasonText}}</span></div>
{{- end}}
</td>
<td class="score"><span class="score-badge score-{{.Tier}}">{{.TotalScore}}</span><span class="score-detail">有趣 {{.FunScore}} / 有用 {{.UsefulScore}}</span></td>
</tr>
{{- end}}
</tbody>
</table>

<footer>生成时间：{{.GeneratedAt}}</footer>
</div>
<script>
(function () {
  var tbody = document.getElementById('results-body');
  var button = document.getElementById('sort-toggle');
  var originalRows = Array.prototype.slice.call(tbody.querySelectorAll('tr'));
  var sorted = false;
  button.addEventListener('click', function () {
    var rows = originalRows.slice();
    if (!sorted) {
      rows.sort(function (a, b) {
        var d = Number(b.dataset.score) - Number(a.dataset.score);
        return d !== 0 ? d : Number(a.dataset.index) - Number(b.dataset.index);
      });
    }
    rows.forEach(function (row) { tbody.appendChild(row); });
    sorted = !sorted;
    button.textContent = sorted ? '恢复原始排序' : '按分数排序';
  });
})();
</script>
</body>
</html>
`
