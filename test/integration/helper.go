//go:build integration

// Package integration 针对运行中的服务做端到端验证
//
// 运行方式：
//
//	docker compose up -d mysql redis && go run ./cmd/api
//	go test -tags=integration -v ./test/integration/...
package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Timeout HTTP请求超时时间
const Timeout = 10 * time.Second

// BaseURL 可通过MALL_BASE_URL覆盖
var BaseURL = baseURL()

func baseURL() string {
	if v := os.Getenv("MALL_BASE_URL"); v != "" {
		return v
	}
	return "http://localhost:8080/api/v1"
}

var seq atomic.Int64

// Response 统一响应结构
type Response struct {
	Status  int             `json:"-"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type LoginData struct {
	AccessToken string `json:"access_token"`
}

type ProductData struct {
	ID             uint   `json:"id"`
	EffectivePrice string `json:"effective_price"`
	Stock          int    `json:"stock"`
	Status         string `json:"status"`
}

type CartData struct {
	CartID uint `json:"cart_id"`
	Item   struct {
		ID        uint   `json:"id"`
		Quantity  int    `json:"quantity"`
		UnitPrice string `json:"unit_price"`
	} `json:"item"`
	Summary struct {
		TotalItems int    `json:"total_items"`
		TotalPrice string `json:"total_price"`
	} `json:"summary"`
}

type OrderData struct {
	OrderID       uint   `json:"order_id"`
	OrderNo       string `json:"order_no"`
	TotalAmount   string `json:"total_amount"`
	TotalQuantity int    `json:"total_quantity"`
}

type SellerData struct {
	TotalSales  string `json:"total_sales"`
	TotalOrders int    `json:"total_orders"`
}

// Do 发送请求并解析统一响应
func Do(t *testing.T, method, url string, body interface{}, token string) *Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err, "JSON序列化失败")
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err, "创建HTTP请求失败")
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: Timeout}
	resp, err := client.Do(req)
	if err != nil {
		t.Skipf("服务不可达(%s): %v", BaseURL, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	var result Response
	require.NoError(t, json.Unmarshal(raw, &result), "解析JSON响应失败: %s", string(raw))
	result.Status = resp.StatusCode
	return &result
}

func PostJSON(t *testing.T, url string, body interface{}, token string) *Response {
	t.Helper()
	return Do(t, http.MethodPost, url, body, token)
}

func GetJSON(t *testing.T, url, token string) *Response {
	t.Helper()
	return Do(t, http.MethodGet, url, nil, token)
}

// Decode 解析data字段
func Decode[T any](t *testing.T, resp *Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(resp.Data, &v), "解析响应数据失败: %s", string(resp.Data))
	return v
}

// Unique 生成测试运行内唯一的后缀，避免重复运行时唯一索引冲突
func Unique(prefix string) string {
	return fmt.Sprintf("%s_%d_%d", prefix, time.Now().UnixNano(), seq.Add(1))
}

// RegisterTestUser 注册并登录，返回邮箱和Access Token
func RegisterTestUser(t *testing.T, nickname string) (email, token string) {
	t.Helper()
	email = Unique(nickname) + "@test.com"

	resp := PostJSON(t, BaseURL+"/users/register", map[string]string{
		"email":    email,
		"password": "Test1234",
		"nickname": nickname,
	}, "")
	require.Equal(t, http.StatusCreated, resp.Status, "注册失败: %s", resp.Message)

	resp = PostJSON(t, BaseURL+"/users/login", map[string]string{
		"email":    email,
		"password": "Test1234",
	}, "")
	require.Equal(t, 0, resp.Code, "登录失败: %s", resp.Message)

	return email, Decode[LoginData](t, resp).AccessToken
}

// RegisterTestSeller 注册用户并开通店铺
func RegisterTestSeller(t *testing.T) string {
	t.Helper()
	_, token := RegisterTestUser(t, "seller")
	resp := PostJSON(t, BaseURL+"/sellers", map[string]string{"shop_name": Unique("shop")}, token)
	require.Equal(t, http.StatusCreated, resp.Status, "开通店铺失败: %s", resp.Message)
	return token
}

// PublishTestProduct 上架原价100、九折的商品
func PublishTestProduct(t *testing.T, sellerToken string, stock int) uint {
	t.Helper()
	resp := PostJSON(t, BaseURL+"/products", map[string]interface{}{
		"title":          Unique("商品"),
		"price":          "100.00",
		"discount_type":  "percent",
		"discount_value": 10,
		"stock_quantity": stock,
	}, sellerToken)
	require.Equal(t, http.StatusCreated, resp.Status, "商品上架失败: %s", resp.Message)
	return Decode[ProductData](t, resp).ID
}

// AddToCart 加购
func AddToCart(t *testing.T, token string, productID uint, quantity int) *Response {
	t.Helper()
	return PostJSON(t, fmt.Sprintf("%s/add-to-cart/%d", BaseURL, productID),
		map[string]int{"quantity": quantity}, token)
}

func itoa(id uint) string {
	return fmt.Sprint(id)
}
