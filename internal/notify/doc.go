// Package notify implements fire-and-forget outbound notifications.
//
// A Dispatcher accepts messages without blocking the caller, buffers them in
// a bounded queue, and delivers them from a small pool of workers through a
// Sender. Deliveries are throttled by a token-bucket limiter. Delivery
// failures are logged and dropped; nothing is retried and no error ever
// reaches the code that triggered the notification.
package notify
