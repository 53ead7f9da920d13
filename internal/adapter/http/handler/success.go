package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// successPage is shown when a provider's hosted checkout redirects the
// buyer back after paying. Delivery itself happens via the callback; this
// page only tells the buyer to return to the chat.
const successPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Payment Received</title>
<style>
body { font-family: sans-serif; display: flex; align-items: center; justify-content: center; min-height: 100vh; margin: 0; background: #f5f5f5; }
.card { background: #fff; border-radius: 12px; padding: 2.5rem 3rem; box-shadow: 0 2px 12px rgba(0,0,0,.08); text-align: center; }
h1 { color: #2e7d32; margin: 0 0 .5rem; }
p { color: #555; margin: 0; }
</style>
</head>
<body>
<div class="card">
<h1>&#10004; Payment Received</h1>
<p>Thank you! Your payment is being processed.</p>
<p>Return to the Telegram chat to receive your order.</p>
</div>
</body>
</html>`

// SuccessPage handles GET /success.
func SuccessPage(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(successPage))
}
