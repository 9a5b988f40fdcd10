package app

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"chat_admin_service/internal/inbox/domain"
	"chat_admin_service/pkg/logger"
	"chat_admin_service/pkg/middlewares"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

// InboxWebsocketHandler 客服端 websocket 進入點
type InboxWebsocketHandler struct {
	messageUC *MessageUseCase
}

// NewInboxWebsocketHandler create InboxWebsocketHandler
func NewInboxWebsocketHandler(messageUC *MessageUseCase) *InboxWebsocketHandler {
	return &InboxWebsocketHandler{messageUC: messageUC}
}

// wsSession 單一連線的狀態，feed 跟著進出房間建立與釋放
type wsSession struct {
	conn    *websocket.Conn
	adminID string

	mu     sync.Mutex
	feed   *FeedSynchronizer
	roomID string
}

// write 序列化回應並送出，callback 與讀迴圈共用連線所以要鎖
func (s *wsSession) write(resp domain.WSResponse) {
	b, _ := json.Marshal(resp)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conn.WriteMessage(websocket.TextMessage, b); err != nil {
		logger.Log.Errorf("write message error:", err)
	}
}

func (s *wsSession) setFeed(roomID string, feed *FeedSynchronizer) {
	s.closeFeed()
	s.mu.Lock()
	s.feed = feed
	s.roomID = roomID
	s.mu.Unlock()
}

func (s *wsSession) currentFeed() (*FeedSynchronizer, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.feed, s.roomID
}

func (s *wsSession) closeFeed() {
	s.mu.Lock()
	feed := s.feed
	s.feed = nil
	s.roomID = ""
	s.mu.Unlock()
	if feed != nil {
		feed.Close()
	}
}

// HandleConnection 是 WebSocket 連線的進入點
func (h *InboxWebsocketHandler) HandleConnection(ctx context.Context, conn *websocket.Conn) {
	adminID, ok := conn.Locals(middlewares.TokenAdminID).(string)
	logger.Log.Info("websocket handle adminID", zap.String("adminID", adminID), zap.Bool("ok", ok))

	sess := &wsSession{conn: conn, adminID: adminID}
	ticker := time.NewTicker(10 * time.Minute)
	ctxClose, cancel := context.WithCancel(context.Background())

	defer func() {
		ticker.Stop()
		logger.Log.Info("websocket close", zap.String("adminID", adminID))
		h.clearTyping(sess)
		sess.closeFeed()
		conn.Close()
		cancel()
	}()

	//client發出close
	//fiber會自動處理(在read msg 回傳err),故需要SetCloseHandler另外接出
	conn.SetCloseHandler(func(code int, text string) error {
		logger.Log.Infof("WebSocket closed:", conn.RemoteAddr())
		return nil
	})

	//server發出ping之後client連線正常會回pong
	conn.SetPongHandler(func(appData string) error {
		logger.Log.Infof("Received PONG:", appData)
		return nil
	})

	//client發出ping
	conn.SetPingHandler(func(appData string) error {
		logger.Log.Infof("Received PING:", appData)
		return conn.WriteControl(
			websocket.PongMessage,
			[]byte(appData),
			time.Now().Add(time.Second),
		)
	})

	// 定期發送 Ping
	go func() {
		for {
			select {
			case <-ticker.C:
				sess.mu.Lock()
				err := conn.WriteMessage(websocket.PingMessage, []byte("ping message"))
				sess.mu.Unlock()
				if err != nil {
					logger.Log.Errorf("Ping error:", err)
					return
				}
			case <-ctxClose.Done():
				return
			}
		}
	}()

	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Log.Errorf("Connection closed:", err)
			} else {
				logger.Log.Errorf("websocket read error:", err)
			}
			return
		}
		if mt != websocket.TextMessage {
			continue
		}
		h.textMessageAction(ctx, sess, message)
	}
}

func (h *InboxWebsocketHandler) textMessageAction(ctx context.Context, sess *wsSession, msg []byte) {
	var req domain.WSRequest
	if err := json.Unmarshal(msg, &req); err != nil {
		logger.Log.Errorf("json unmarshal error:", err)
		return
	}

	resp := domain.WSResponse{Action: req.Action, Success: false, Payload: map[string]interface{}{}}
	switch req.Action {
	//進入對話，建立同步器並載入最新一頁
	case string(domain.EnterRoom):
		feed := h.messageUC.NewFeed(req.RoomID, sess.adminID, h.feedCallbacks(sess))
		if err := feed.Start(ctx); err != nil {
			resp.Error = err.Error()
			break
		}
		sess.setFeed(req.RoomID, feed)

		// 點開房間視同已讀
		if err := h.messageUC.MarkAllRead(ctx, req.RoomID, sess.adminID); err != nil {
			logger.Log.Error("mark all read err :", zap.String("room", req.RoomID), zap.String("err", err.Error()))
		}

		resp.Success = true
		resp.Payload["room_id"] = req.RoomID
		resp.Payload["messages"] = feed.Messages()
		resp.Payload["has_more"] = feed.buffer.HasMore()
		resp.Payload["state"] = feed.State()

	//離開對話，釋放同步器
	case string(domain.LeaveRoom):
		h.clearTyping(sess)
		sess.closeFeed()
		resp.Success = true
		resp.Payload["leave_room"] = req.RoomID

	//向前翻一頁歷史
	case string(domain.LoadMore):
		feed, roomID := sess.currentFeed()
		if feed == nil {
			resp.Error = "no active room"
			break
		}
		hasMore, err := feed.LoadMore(ctx)
		if err != nil {
			resp.Error = err.Error()
			break
		}
		resp.Success = true
		resp.Payload["room_id"] = roomID
		resp.Payload["messages"] = feed.Messages()
		resp.Payload["has_more"] = hasMore

	//客服發送訊息
	case string(domain.SendMessage):
		m, err := h.messageUC.SendMessage(ctx, req.RoomID, sess.adminID, domain.SenderAgent, req)
		if err != nil {
			resp.Error = err.Error()
		} else {
			resp.Success = true
			resp.Payload["message"] = m
		}

	//將房間內對方訊息全部轉已讀
	case string(domain.ReadAll):
		if err := h.messageUC.MarkAllRead(ctx, req.RoomID, sess.adminID); err != nil {
			resp.Error = err.Error()
		} else {
			resp.Success = true
		}

	//打字狀態
	case string(domain.Typing):
		if err := h.messageUC.SetTyping(ctx, req.RoomID, sess.adminID, req.IsTyping); err != nil {
			resp.Error = err.Error()
		} else {
			resp.Success = true
			// 回推目前還在打字的人，前端直接更新顯示
			if typers, err := h.messageUC.ActiveTypers(ctx, req.RoomID); err == nil {
				sess.write(domain.WSResponse{
					Action:  string(domain.NotifyTyping),
					Success: true,
					Payload: map[string]interface{}{"room_id": req.RoomID, "typers": typers},
				})
			}
		}

	//開關 AI 自動回覆
	case string(domain.SetAI):
		if err := h.messageUC.SetAIEnabled(ctx, req.RoomID, req.AIEnabled); err != nil {
			resp.Error = err.Error()
		} else {
			resp.Success = true
			resp.Payload["ai_enabled"] = req.AIEnabled
		}

	//對話列表
	case string(domain.ListRooms):
		rooms, err := h.messageUC.ListRooms(ctx)
		if err != nil {
			resp.Error = err.Error()
		} else {
			resp.Success = true
			resp.Payload["rooms"] = rooms
		}

	default:
		resp.Error = "unknown action"
	}

	if resp.Error != "" {
		logger.Log.Error("websocket err ",
			zap.String("AdminID", sess.adminID),
			zap.String("Action", req.Action),
			zap.String("err", resp.Error))
	}
	sess.write(resp)
}

// clearTyping 離開房間或斷線時把自己的打字狀態清掉，避免前端殘留
func (h *InboxWebsocketHandler) clearTyping(sess *wsSession) {
	_, roomID := sess.currentFeed()
	if roomID == "" {
		return
	}
	if err := h.messageUC.SetTyping(context.Background(), roomID, sess.adminID, false); err != nil {
		logger.Log.Error("clear typing err :", zap.String("room", roomID), zap.String("err", err.Error()))
	}
}

// feedCallbacks 把同步器事件轉成 websocket 通知
func (h *InboxWebsocketHandler) feedCallbacks(sess *wsSession) domain.FeedCallbacks {
	return domain.FeedCallbacks{
		OnNewMessage: func(m domain.Message) {
			sess.write(domain.WSResponse{
				Action:  string(domain.NotifyMessage),
				Success: true,
				Payload: map[string]interface{}{"message": m},
			})
		},
		OnStatusChange: func(messageID string, status domain.MessageStatus) {
			sess.write(domain.WSResponse{
				Action:  string(domain.NotifyStatus),
				Success: true,
				Payload: map[string]interface{}{"message_id": messageID, "status": status},
			})
		},
		OnConnectivityChange: func(isLive bool) {
			sess.write(domain.WSResponse{
				Action:  string(domain.NotifyConnectivity),
				Success: true,
				Payload: map[string]interface{}{"is_live": isLive},
			})
		},
	}
}
