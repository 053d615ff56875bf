package overlay

// overlayPage is the default overlay served at "/". It is designed to
// be captured by an OBS browser source: transparent background, large
// gesture text, confidence readout, and a rolling caption line. Updates
// arrive over the /api/events WebSocket with a polling fallback.
const overlayPage = `<!DOCTYPE html>
<html>
<head>
    <title>HandSpeak Overlay</title>
    <style>
        body {
            margin: 0;
            padding: 0;
            font-family: 'Arial', sans-serif;
            color: white;
            text-shadow: 2px 2px 4px rgba(0, 0, 0, 0.8);
            background: transparent;
            overflow: hidden;
        }
        .container { padding: 15px; text-align: center; }
        .gesture {
            font-size: 64px;
            font-weight: bold;
            margin: 10px 0;
            text-transform: uppercase;
            animation: fadeIn 0.5s;
        }
        .confidence { font-size: 24px; color: #4CAF50; margin-bottom: 10px; }
        .caption { font-size: 28px; color: #FFFFFF; margin-top: 6px; }
        .status { font-size: 18px; color: #2196F3; margin-top: 10px; }
        @keyframes fadeIn {
            from { opacity: 0; transform: translateY(10px); }
            to { opacity: 1; transform: translateY(0); }
        }
    </style>
</head>
<body>
    <div class="container">
        <div id="gesture" class="gesture"></div>
        <div id="confidence" class="confidence"></div>
        <div id="caption" class="caption"></div>
        <div id="status" class="status">Waiting for gesture...</div>
    </div>
    <script>
        function render(d) {
            document.getElementById('gesture').textContent = d.gesture || '';
            document.getElementById('confidence').textContent =
                d.gesture && d.confidence ? Math.round(d.confidence * 100) + '%' : '';
            document.getElementById('caption').textContent = d.caption || '';
            document.getElementById('status').textContent =
                d.gesture ? 'Detected: ' + d.gesture : 'Waiting for gesture...';
        }

        function connect() {
            var proto = location.protocol === 'https:' ? 'wss://' : 'ws://';
            var ws = new WebSocket(proto + location.host + '/api/events');
            ws.onmessage = function (ev) { render(JSON.parse(ev.data)); };
            ws.onclose = function () { setTimeout(connect, 1000); };
        }
        connect();

        // Polling fallback in case the WebSocket never connects.
        setInterval(function () {
            fetch('/api/current')
                .then(function (r) { return r.json(); })
                .then(render)
                .catch(function () {});
        }, 1000);
    </script>
</body>
</html>
`
