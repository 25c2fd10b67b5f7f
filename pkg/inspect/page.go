package inspect

// pageHTML renders the latest output and logs incoming patches.
const pageHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>mte inspector</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem; }
#view { border: 1px solid #ccc; padding: 1rem; min-height: 2rem; }
#log { font-family: monospace; font-size: 12px; color: #555; max-height: 20rem; overflow: auto; }
.error { color: #b00; }
</style>
</head>
<body>
<h1>mte inspector</h1>
<div id="view"></div>
<h2>Patches</h2>
<div id="log"></div>
<script>
(function() {
    'use strict';

    var view = document.getElementById('view');
    var log = document.getElementById('log');

    function line(text, cls) {
        var div = document.createElement('div');
        div.textContent = text;
        if (cls) div.className = cls;
        log.insertBefore(div, log.firstChild);
    }

    function connect() {
        var protocol = location.protocol === 'https:' ? 'wss:' : 'ws:';
        var ws = new WebSocket(protocol + '//' + location.host + '/ws');

        ws.onmessage = function(e) {
            var msg;
            try {
                msg = JSON.parse(e.data);
            } catch (err) {
                return;
            }
            switch (msg.type) {
                case 'snapshot':
                    view.innerHTML = msg.html;
                    break;
                case 'patch':
                    view.innerHTML = msg.html;
                    (msg.patches || []).forEach(function(p) {
                        line(p.op + ' [' + p.target.join('/') + '] ' + (p.key || '') + ' ' + (p.value || p.node || ''));
                    });
                    break;
                case 'error':
                    line(msg.error, 'error');
                    break;
            }
        };

        ws.onclose = function() {
            setTimeout(connect, 1000);
        };
    }

    connect();
})();
</script>
</body>
</html>
`
