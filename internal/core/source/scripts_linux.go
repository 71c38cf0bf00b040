package source

// Active window class and title via xdotool/xprop (X11 only), printed as
// "App, Window" on one line.
const defaultActivityScript = `id=$(xdotool getactivewindow 2>/dev/null) || exit 0
app=$(xprop -id "$id" WM_CLASS 2>/dev/null | cut -d '"' -f4)
title=$(xdotool getwindowname "$id" 2>/dev/null)
printf '%s, %s\n' "$app" "$title"`

// xprintidle reports milliseconds
const defaultIdleScript = `xprintidle | awk '{print $1/1000}'`
