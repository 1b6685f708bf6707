package statusapi

const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Scraper Status</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body { font-family: 'Inter', -apple-system, system-ui, sans-serif; background: #0f172a; color: #e2e8f0; min-height: 100vh; }
        .header { background: linear-gradient(135deg, #1e293b, #334155); padding: 1.5rem 2rem; border-bottom: 1px solid #475569; display: flex; justify-content: space-between; align-items: center; }
        .header h1 { font-size: 1.5rem; background: linear-gradient(135deg, #38bdf8, #818cf8); background-clip: text; -webkit-background-clip: text; -webkit-text-fill-color: transparent; }
        .pill { padding: 0.35rem 0.9rem; border-radius: 9999px; font-size: 0.8rem; font-weight: 600; background: #334155; color: #cbd5e1; }
        .pill.running { background: #0c4a6e; color: #38bdf8; }
        .pill.done { background: #166534; color: #4ade80; }
        .pill.error { background: #991b1b; color: #fca5a5; }
        .grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(180px, 1fr)); gap: 1rem; padding: 1.5rem 2rem 0; }
        .stat { background: #1e293b; border: 1px solid #334155; border-radius: 12px; padding: 1.25rem; }
        .stat .label { font-size: 0.75rem; text-transform: uppercase; letter-spacing: 0.05em; color: #94a3b8; margin-bottom: 0.5rem; }
        .stat .value { font-size: 1.75rem; font-weight: 700; color: #f1f5f9; }
        .stat .sub { font-size: 0.8rem; color: #64748b; margin-top: 0.25rem; }
        .toolbar { display: flex; gap: 1rem; padding: 1.5rem 2rem; align-items: center; }
        .toolbar input { flex: 1; background: #1e293b; border: 1px solid #475569; border-radius: 8px; padding: 0.6rem 0.9rem; color: #e2e8f0; }
        button { background: #38bdf8; color: #0f172a; border: 0; border-radius: 8px; padding: 0.6rem 1rem; font-weight: 600; cursor: pointer; }
        button:disabled { background: #334155; color: #64748b; cursor: default; }
        .cards { display: grid; grid-template-columns: repeat(auto-fill, minmax(280px, 1fr)); gap: 1rem; padding: 0 2rem; }
        .card { background: #1e293b; border: 1px solid #334155; border-radius: 12px; padding: 1rem 1.25rem; }
        .card h3 { font-size: 1rem; margin-bottom: 0.5rem; display: flex; justify-content: space-between; gap: 0.5rem; }
        .card .row { display: flex; justify-content: space-between; font-size: 0.8rem; color: #94a3b8; padding: 0.15rem 0; }
        .card .row span:last-child { color: #e2e8f0; }
        .pager { display: flex; gap: 1rem; justify-content: center; align-items: center; padding: 1.5rem; }
        .footer { text-align: center; padding: 1rem; color: #475569; font-size: 0.75rem; }
    </style>
</head>
<body>
    <div class="header">
        <h1>Scraper Status</h1>
        <span class="pill" id="status">Connecting...</span>
    </div>
    <div class="grid">
        <div class="stat"><div class="label">Pages Scraped</div><div class="value" id="page_count">0</div></div>
        <div class="stat"><div class="label">Active Scrapers</div><div class="value" id="active">0</div><div class="sub" id="total"></div></div>
        <div class="stat"><div class="label">Tasks</div><div class="value" id="tasks">0</div></div>
        <div class="stat"><div class="label">CPU</div><div class="value" id="cpu">-</div></div>
        <div class="stat"><div class="label">Memory</div><div class="value" id="memory">-</div><div class="sub" id="memory_detail"></div></div>
    </div>
    <div class="toolbar">
        <input id="search" placeholder="Search BSN or title">
        <button id="refresh">Restart Scrapers</button>
    </div>
    <div class="cards" id="cards"></div>
    <div class="pager">
        <button id="prev">Prev</button>
        <span id="page_info">Page 1 of 1</span>
        <button id="next">Next</button>
    </div>
    <div class="footer">Auto-refreshes every 2s <span id="updated"></span></div>
    <script>
        const limit = 20;
        let page = 1, query = '', timer = null;
        const $ = id => document.getElementById(id);

        function tone(s) {
            s = (s || '').toLowerCase();
            if (/running|active|fetching/.test(s)) return 'running';
            if (/done|complete|fetched/.test(s)) return 'done';
            if (/error|fail/.test(s)) return 'error';
            return '';
        }
        function fmtTime(t) { if (!t) return '-'; const d = new Date(t); return isNaN(d) ? t : d.toLocaleString(); }
        function bytes(b) { const u=['B','KiB','MiB','GiB','TiB']; let i=0; while(b>=1024&&i<u.length-1){b/=1024;i++;} return b.toFixed(1)+' '+u[i]; }
        function esc(s) { const d = document.createElement('div'); d.textContent = s == null ? '' : String(s); return d.innerHTML; }

        async function load() {
            try {
                const r = await fetch('/api/status?' + new URLSearchParams({page, limit, q: query}));
                const d = await r.json();
                const st = $('status');
                st.textContent = d.curr_status;
                st.className = 'pill ' + tone(d.curr_status);
                $('page_count').textContent = Number(d.page_count).toLocaleString();
                $('active').textContent = d.active_scrapers_count;
                $('total').textContent = 'of ' + d.total_scrapers_count;
                $('tasks').textContent = Number(d.tasks_count).toLocaleString();
                const m = d.system_metrics || {};
                $('cpu').textContent = m.cpu_usage + '%';
                $('memory').textContent = m.memory_usage + '%';
                $('memory_detail').textContent = m.memory_total ? bytes(m.memory_used) + ' / ' + bytes(m.memory_total) : '';
                const keys = Object.keys(d.scrapers_status || {}).sort();
                $('cards').innerHTML = keys.map(bsn => {
                    const s = d.scrapers_status[bsn];
                    const pill = s.post_status || s.post_list_status;
                    return '<div class="card status-' + esc((s.post_list_status || '').toLowerCase()) + '">' +
                        '<h3><span>' + esc(s.theme_title || bsn) + '</span><span class="pill ' + tone(pill) + '">' + esc(pill) + '</span></h3>' +
                        '<div class="row"><span>BSN</span><span>' + esc(bsn) + '</span></div>' +
                        '<div class="row"><span>Post Status</span><span>' + esc(s.post_status) + '</span></div>' +
                        '<div class="row"><span>List Status</span><span>' + esc(s.post_list_status) + '</span></div>' +
                        '<div class="row"><span>Start Time</span><span>' + esc(fmtTime(s.start_time)) + '</span></div>' +
                        '<div class="row"><span>End Time</span><span>' + esc(fmtTime(s.end_time)) + '</span></div>' +
                        '</div>';
                }).join('');
                const total = Math.ceil(d.filtered_count / limit) || 1;
                $('page_info').textContent = 'Page ' + page + ' of ' + total;
                $('prev').disabled = page <= 1;
                $('next').disabled = page >= total;
                $('updated').textContent = '(last update ' + new Date().toLocaleTimeString() + ')';
            } catch (e) {
                $('status').textContent = 'Connection Error';
                $('status').className = 'pill error';
            }
        }

        $('search').addEventListener('input', e => {
            clearTimeout(timer);
            timer = setTimeout(() => { query = e.target.value.trim(); page = 1; load(); }, 300);
        });
        $('prev').addEventListener('click', () => { if (page > 1) { page--; load(); } });
        $('next').addEventListener('click', () => { page++; load(); });
        $('refresh').addEventListener('click', async () => {
            if (!confirm('Restart all scrapers?')) return;
            const b = $('refresh');
            b.disabled = true; b.textContent = 'Restarting...';
            try {
                const r = await fetch('/api/refresh', {method: 'POST'});
                const d = await r.json();
                if (r.ok && d.status === 'success') load();
                else alert(d.message || 'Failed to restart scrapers');
            } catch (e) {
                alert('Connection error while restarting scrapers');
            } finally {
                b.disabled = false; b.textContent = 'Restart Scrapers';
            }
        });

        setInterval(load, 2000);
        load();
    </script>
</body>
</html>`
