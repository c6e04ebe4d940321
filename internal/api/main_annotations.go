// @title           joe-tasks API
// @version         1.0
// @description     Minimal task list. When OIDC login is configured, every call needs the tasks_session cookie issued by /auth/login.
// @BasePath        /api/v1
package api
