package screenshot

const defaultCaptureScript = `f="${TMPDIR:-/tmp}/activity-tracker-shot.jpg"
screencapture -t jpg -x "$f" && echo "$f"`
